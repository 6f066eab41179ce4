package shell

// bindDefaults installs the builtin Kakoune-flavored keymap. Config-driven
// overrides layer on top via Keymap().Bind.
func (e *Editor) bindDefaults() {
	bind := func(seq, action string) {
		if err := e.keys.BindAction("normal", seq, action); err != nil {
			panic("shell: bad default binding " + seq + ": " + err.Error())
		}
	}

	bind("h", "move.left")
	bind("j", "move.down")
	bind("k", "move.up")
	bind("l", "move.right")
	bind("left", "move.left")
	bind("down", "move.down")
	bind("up", "move.up")
	bind("right", "move.right")

	bind("w", "move.next-word-start")
	bind("e", "move.next-word-end")
	bind("b", "move.prev-word-start")

	bind("0", "move.line-start")
	bind("home", "move.line-start")
	bind("$", "move.line-end")
	bind("end", "move.line-end")
	bind("g g", "goto.file-start")
	bind("g e", "goto.file-end")

	bind("f", "find.char")
	bind("t", "find.till")
	bind("F", "find.char-reverse")
	bind("r", "edit.replace-char")

	bind("i", "mode.insert")
	bind("d", "edit.delete-selection")
	bind("y", "edit.yank")
	bind("p", "edit.paste")
	bind("u", "edit.undo")
	bind("ctrl-r", "edit.redo")

	bind("x", "select.line")
	bind(";", "select.collapse")
	bind("alt-;", "select.flip")
	bind(")", "select.rotate-forward")
	bind("(", "select.rotate-backward")
	bind(",", "select.remove-primary")

	bind("n", "search.next")
	bind("alt-n", "search.prev")

	bind("alt-i @any", "select.inner")
	bind("alt-a @any", "select.around")

	bind("q @any", "macro.record")
	bind("Q", "macro.stop")
	bind("@ @any", "macro.play")

	bind("ctrl-q", "editor.quit")
}
