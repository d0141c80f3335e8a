package main

import "github.com/xyfu66/score-following-app/cmd"

func main() {
	cmd.Execute()
}
