package helper

import gonanoid "github.com/matoous/go-nanoid/v2"

// urlAlphabet is the nanoid URL-safe set. IDs end up in object names and
// download URLs, so nothing that needs escaping.
const urlAlphabet = "useandom-26T198340PX75pxJACKVERYMINDBUSHWOLF_GQZbfghjklqvwyzrict"

// GenerateID returns a 16 character id for media records and their stored
// objects.
func GenerateID() (string, error) {
	return gonanoid.Generate(urlAlphabet, 16)
}
