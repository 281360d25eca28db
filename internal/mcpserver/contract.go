package mcpserver

// SearchGuide describes the save container and the path and match notation
// returned by the search tools.
const SearchGuide = `# savscan Search Guide

## Save files

A save is a small opaque header (4 bytes by default) followed by a
compressed UTF-8 JSON document. The payload is zlib framed; older saves may
use raw deflate instead. Both are read transparently.

## Paths

- Object keys are joined with ` + "`/`" + `: ` + "`Player/DisplayName`" + `.
- Array indices are appended in brackets: ` + "`Items[0]`" + `, ` + "`Grid[1][2]`" + `.
- A path at the root has no leading separator.

## find_value

Visits every string leaf. A leaf equal to the target is reported with kind
` + "`value`" + `; otherwise a leaf containing the target is reported with kind
` + "`value (substring)`" + `. Numbers, booleans and null are never matched. The
comparison ignores case unless case_sensitive is true.

## find_key

Reports every key whose name contains the substring, whatever the type of its
value, with the value's type (string, number, object, array, boolean, null)
and a preview truncated to 120 characters. Array elements have no key and
are never matched themselves, but their contents are searched.

## Tips

1. Call list_saves first; paths are relative to the save directory.
2. Use summarize_save to see the top-level layout before searching.
3. Search for a value you can see in game (a name, an item) and use the
   returned path to locate related fields with find_key.
`
