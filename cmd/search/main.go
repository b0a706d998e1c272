// cmd/search/main.go
package main

import (
	"af2tools/internal/appshell"
	"af2tools/internal/searchapp"
)

func main() {
	appshell.Main(searchapp.RunContext)
}
