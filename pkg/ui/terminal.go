package ui

import (
	"fmt"
	"io"
	"os"
)

// Banner is printed at the start of interactive commands
const Banner = `
  ╔═══════════════════════════════════════════╗
  ║   vkbackup · VK photos -> Yandex.Disk     ║
  ╚═══════════════════════════════════════════╝
`

// Color functions for terminal output
var (
	Cyan       = colorize("\033[36m%s\033[0m")
	Yellow     = colorize("\033[33m%s\033[0m")
	Red        = colorize("\033[31m%s\033[0m")
	Green      = colorize("\033[32m%s\033[0m")
	Magenta    = colorize("\033[35m%s\033[0m")
	Dim        = colorize("\033[2m%s\033[0m")
	BoldYellow = colorize("\033[33m\033[1m%s\033[0m")
	BoldRed    = colorize("\033[31m\033[1m%s\033[0m")
)

// colorize returns a function that wraps text with ANSI color codes
func colorize(colorString string) func(string) string {
	return func(text string) string {
		return fmt.Sprintf(colorString, text)
	}
}

// PrintBanner prints the banner in cyan
func PrintBanner() {
	fmt.Print(Cyan(Banner))
}

// PrintError prints an error message in red
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		fmt.Println(Red(msg + ": " + fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Println(Red(msg))
	}
}

// PrintSuccess prints a success message in green
func PrintSuccess(msg string) {
	fmt.Println(Green(msg))
}

// PrintInfo prints a label/value pair
func PrintInfo(label string, value string) {
	FprintInfo(os.Stdout, label, value)
}

// FprintInfo writes a label/value pair to w
func FprintInfo(w io.Writer, label string, value string) {
	fmt.Fprintf(w, "%s: %s\n", Cyan(label), Yellow(value))
}

// PrintWarning prints a warning message in yellow
func PrintWarning(msg string, args ...interface{}) {
	if len(args) > 0 {
		fmt.Println(Yellow(msg + ": " + fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Println(Yellow(msg))
	}
}
