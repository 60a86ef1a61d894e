package mcpserver

// PersonNoteContract describes how person notes declare avatars. LLM
// consumers should follow it when creating or editing person notes.
const PersonNoteContract = `# Mannaz Person Note Contract

A person note is any Markdown note stored under the configured people
folder (default ` + "`" + `Sets/People/` + "`" + `). Links to person notes are decorated
with an avatar icon wherever they appear.

## Structure

` + "```" + `markdown
---
title: Ada Lovelace                 # OPTIONAL – display name; falls back to the file name
avatar: ada-lovelace.png            # OPTIONAL – image file name inside the avatar folder
---

Free-form Markdown body.
` + "```" + `

## Rules

1. **Location decides personhood.** A note is a person note if and only
   if its path is inside the people folder (direct children and
   subfolders both count). No frontmatter flag is needed.
2. **` + "`" + `avatar` + "`" + ` is a bare file name**, not a path. It is resolved inside
   the configured avatar folder. Values containing ` + "`" + `/` + "`" + ` are used as-is
   relative to the avatar folder.
3. **Missing avatars degrade, never break.** When ` + "`" + `avatar` + "`" + ` is absent,
   not a string, the avatar folder is unset, or the file does not
   exist, the built-in silhouette icon is used instead.
4. **Wikilinks** target the note by stem or path: ` + "`" + `[[Ada Lovelace]]` + "`" + `,
   ` + "`" + `[[Sets/People/Ada Lovelace]]` + "`" + `, or ` + "`" + `[[Ada Lovelace|Ada]]` + "`" + ` with an
   alias. All resolve to the same person note.
5. **File paths** end with ` + "`" + `.md` + "`" + ` and use forward slashes.

## Example

` + "```" + `markdown
---
title: Ada Lovelace
avatar: ada-lovelace.png
---

# Ada Lovelace

First programmer. Works on the [[analytical-engine]].
` + "```" + `
`
