// cmd/copy-output/main.go
package main

import (
	"af2tools/internal/appshell"
	"af2tools/internal/copyapp"
)

func main() {
	appshell.Main(copyapp.RunContext)
}
