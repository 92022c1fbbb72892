package main

import (
	"flag"
	"log"
	"os"

	"github.com/df07/go-solar-raytracer/web/server"
)

func main() {
	// Parse command line flags
	port := flag.Int("port", 8080, "Port to serve on")
	workers := flag.Int("workers", 0, "Row workers per frame (0 = CPU count)")
	flag.Parse()

	webServer := server.NewServer(*port, *workers)
	defer webServer.Close()

	log.Printf("Solar System Raytracer Web Server")
	log.Printf("Visit http://localhost:%d to watch the animation", *port)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		webServer.Close()
		os.Exit(1)
	}
}
