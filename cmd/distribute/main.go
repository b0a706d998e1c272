// cmd/distribute/main.go
package main

import (
	"af2tools/internal/appshell"
	"af2tools/internal/distapp"
)

func main() {
	appshell.Main(distapp.RunContext)
}
