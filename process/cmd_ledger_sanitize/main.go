package main

import "suivitjm/process/sanitize"

func main() {
	sanitize.Run()
}
