package main

import "mediahub_backend/internal/app"

func main() {
	app.Run()
}
