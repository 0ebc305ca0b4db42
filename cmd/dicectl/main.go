// Command dicectl inspects Lucky Dice state from the command line.
package main

import "lucky-dice-bot/cmd/dicectl/root"

func main() {
	root.Execute()
}
