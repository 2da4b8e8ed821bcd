package main

import "github.com/vibast-solutions/ms-go-catalog/cmd"

func main() {
	cmd.Execute()
}
