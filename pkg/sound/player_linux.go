package sound

// playerCommands lists candidate audio player invocations in probe order.
func playerCommands() [][]string {
	return [][]string{
		{"paplay"},
		{"aplay", "-q"},
		{"mpg123", "-q"},
		{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet"},
	}
}
