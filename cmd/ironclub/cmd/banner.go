package cmd

import (
	"fmt"
)

const banner = `
  _____                  _       _       _
 |_   _|                | |     | |     | |
   | |  _ __ ___  _ __  | | ___ | |_   _| |__
   | | | '__/ _ \| '_ \ | |/ _ \| | | | | '_ \
  _| |_| | | (_) | | | || | (_) | | |_| | |_) |
 |_____|_|  \___/|_| |_||_|\___/|_|\__,_|_.__/

`

func printBanner() {
	fmt.Printf("\x1b[34m%s\x1b[0m", banner)
	fmt.Printf("\x1b[32m  Workout Tracker - Version %s\x1b[0m\n\n", Version)
}
