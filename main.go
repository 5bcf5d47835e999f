package main

import "github.com/jwbullard/VCCTL-sub001/cmd"

func main() {
	cmd.Execute()
}
