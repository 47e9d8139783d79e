package main

import (
	"embed"
	"io/fs"
	"os"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	dist, err := fs.Sub(assets, "frontend/dist")
	if err != nil {
		println("Error:", err.Error())
		os.Exit(1)
	}
	os.Exit(Execute(dist, os.Args[1:]))
}
