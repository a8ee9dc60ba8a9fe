package main

import "paysheet/cmd"

func main() {
	cmd.Execute()
}
