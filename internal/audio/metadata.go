package audio

import id3v2 "github.com/bogem/id3v2/v2"

// readID3Title pulls the title tag from an mp3 file, used as the default
// export filename prefix. Missing or unreadable tags are not an error.
func readID3Title(path string) string {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true, ParseFrames: []string{"Title"}})
	if err != nil {
		return ""
	}
	defer tag.Close()
	return tag.Title()
}
