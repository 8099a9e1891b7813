package main

import "clinichr/internal/app/server"

func main() {
	server.Run()
}
