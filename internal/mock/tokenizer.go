package mock

// ByteTokenizer treats every byte as one token. It needs no vocabulary download.
type ByteTokenizer struct{}

func (ByteTokenizer) Encode(text string) []int {
	tokens := make([]int, len(text))
	for i := 0; i < len(text); i++ {
		tokens[i] = int(text[i])
	}
	return tokens
}

func (ByteTokenizer) Decode(tokens []int) string {
	buf := make([]byte, len(tokens))
	for i, t := range tokens {
		buf[i] = byte(t)
	}
	return string(buf)
}
