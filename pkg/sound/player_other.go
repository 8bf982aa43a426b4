//go:build !linux && !darwin && !windows

package sound

// playerCommands lists candidate audio player invocations in probe order.
func playerCommands() [][]string {
	return [][]string{}
}
