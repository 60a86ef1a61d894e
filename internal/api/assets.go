package api

// AvatarsCSS styles decorated person links. The image comes from the
// per-link --data-link-avatar custom property so one rule serves every
// avatar.
const AvatarsCSS = `/* Person link avatars. */
.data-link-icon.person-link::before {
	content: "";
	display: inline-block;
	width: 1.1em;
	height: 1.1em;
	margin-right: 0.25em;
	vertical-align: -0.2em;
	border-radius: 50%;
	background-color: var(--background-modifier-border, #ddd);
	background-image: var(--data-link-avatar);
	background-size: cover;
	background-position: center;
}

.cm-hmd-internal-link.person-link-processed .cm-underline.person-link::before {
	content: "";
	display: inline-block;
	width: 1.1em;
	height: 1.1em;
	margin-right: 0.25em;
	vertical-align: -0.2em;
	border-radius: 50%;
	background-image: var(--data-link-avatar);
	background-size: cover;
	background-position: center;
}
`
