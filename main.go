package main

import "github.com/user/vidtrim/cmd"

func main() {
	cmd.Execute()
}
