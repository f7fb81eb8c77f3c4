package main

import "heritage/cmd"

func main() {
	cmd.Execute()
}
