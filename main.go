package main

import "github.com/quocvuong92/kitty-launcher/cmd"

func main() {
	cmd.Execute()
}
