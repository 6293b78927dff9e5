package main

import "github.com/JonMunkholm/csvsql/internal/cli"

func main() {
	cli.Execute()
}
