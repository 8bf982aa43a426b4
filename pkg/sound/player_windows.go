package sound

// playerCommands lists candidate audio player invocations in probe order.
func playerCommands() [][]string {
	return [][]string{
		{"powershell", "-c", "(New-Object Media.SoundPlayer $args[0]).PlaySync()"},
	}
}
