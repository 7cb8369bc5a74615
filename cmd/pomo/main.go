package main

import "pomofriends/cmd/pomo/root"

func main() {
	root.Execute()
}
