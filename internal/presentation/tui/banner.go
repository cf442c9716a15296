package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner shown when play starts.
func PrintBanner() {
	p := termenv.ColorProfile()
	// Warm ember gradient, campfire-story colors.
	s1 := termenv.String("   __       _     _      ").Foreground(p.Color("#fbbf24"))
	s2 := termenv.String("  / _| __ _| |__ | | ___ ").Foreground(p.Color("#f59e0b"))
	s3 := termenv.String(" | |_ / _` | '_ \\| |/ _ \\").Foreground(p.Color("#f97316"))
	s4 := termenv.String(" |  _| (_| | |_) | |  __/").Foreground(p.Color("#ea580c"))
	s5 := termenv.String(" |_|  \\__,_|_.__/|_|\\___|").Foreground(p.Color("#dc2626"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println()
}

// Styled returns s rendered in the given hex color.
func Styled(s, hexColor string) string {
	p := termenv.ColorProfile()
	return termenv.String(s).Foreground(p.Color(hexColor)).String()
}
