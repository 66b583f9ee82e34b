package main

import (
	"fmt"
	"uploadkit-go/internal/handler/docs"
	"uploadkit-go/internal/pkg/logger"
)

func main() {
	logger.Setup()

	doc, err := docs.NewDocument("uploadkit", "1.0.0")
	if err != nil {
		panic(err)
	}

	payload, err := doc.JSON()
	if err != nil {
		panic(err)
	}

	fmt.Println(string(payload))
}
