package resp

import "strconv"

// maxBulkLen bounds a single bulk string so a malicious or broken peer
// cannot force an unbounded allocation from a single length prefix.
const maxBulkLen = 512 * 1024 * 1024

// Parse consumes exactly one Value from src, per the RESP2 grammar:
//
//	+<line>\r\n          simple string
//	-<line>\r\n          simple error
//	:<line>\r\n          integer
//	$<len>\r\n<len bytes>\r\n   bulk string (len == -1 means null)
//	*<count>\r\n<count values>  array
//
// It returns ErrIncomplete the moment src runs out of bytes, and
// ErrMalformed (wrapped with a reason) the moment it sees a byte sequence
// that cannot extend into any well-formed value, no matter how many more
// bytes arrive. Partially-consumed bytes on an ErrIncomplete result are not
// un-consumed; a caller that wants to retry must re-parse from a Source
// that still has those bytes pending (see Framer).
func Parse(src Source) (Value, error) {
	b, err := src.Peek()
	if err != nil {
		return Value{}, err
	}
	src.Advance()

	switch Kind(b) {
	case KindSimpleString:
		line, err := readLine(src)
		if err != nil {
			return Value{}, err
		}
		return SimpleString(line), nil

	case KindSimpleError:
		line, err := readLine(src)
		if err != nil {
			return Value{}, err
		}
		return SimpleError(line), nil

	case KindInteger:
		line, err := readLine(src)
		if err != nil {
			return Value{}, err
		}
		n, perr := strconv.ParseInt(line, 10, 64)
		if perr != nil {
			return Value{}, malformed("integer line is not a valid base-10 int64: " + line)
		}
		return Integer(n), nil

	case KindBulkString:
		return parseBulkString(src)

	case KindArray:
		return parseArray(src)

	default:
		return Value{}, malformed("unrecognized type byte " + strconv.QuoteRune(rune(b)))
	}
}

func parseBulkString(src Source) (Value, error) {
	line, err := readLine(src)
	if err != nil {
		return Value{}, err
	}
	n, perr := strconv.ParseInt(line, 10, 64)
	if perr != nil {
		return Value{}, malformed("bulk string length is not a valid int64: " + line)
	}
	if n == -1 {
		return NullBulkString(), nil
	}
	if n < -1 {
		return Value{}, malformed("bulk string length below -1: " + line)
	}
	if n > maxBulkLen {
		return Value{}, malformed("bulk string length exceeds limit: " + line)
	}

	buf := make([]byte, n)
	for i := range buf {
		c, err := src.Peek()
		if err != nil {
			return Value{}, err
		}
		src.Advance()
		buf[i] = c
	}
	if err := expectCRLF(src); err != nil {
		return Value{}, err
	}
	return BulkStringOf(buf), nil
}

func parseArray(src Source) (Value, error) {
	line, err := readLine(src)
	if err != nil {
		return Value{}, err
	}
	n, perr := strconv.ParseInt(line, 10, 64)
	if perr != nil {
		return Value{}, malformed("array length is not a valid int64: " + line)
	}
	if n < -1 {
		return Value{}, malformed("array length below -1: " + line)
	}
	if n == -1 || n == 0 {
		return ArrayOf([]Value{}), nil
	}
	if n > maxBulkLen {
		return Value{}, malformed("array length exceeds limit: " + line)
	}

	elems := make([]Value, n)
	for i := range elems {
		v, err := Parse(src)
		if err != nil {
			return Value{}, err
		}
		elems[i] = v
	}
	return ArrayOf(elems), nil
}

// readLine reads bytes up to and including a terminating CRLF, returning
// the line with the CRLF stripped. A bare CR not immediately followed by
// LF is malformed; running out of bytes anywhere is ErrIncomplete.
func readLine(src Source) (string, error) {
	var line []byte
	for {
		b, err := src.Peek()
		if err != nil {
			return "", err
		}
		src.Advance()
		if b == '\r' {
			if err := expectByte(src, '\n'); err != nil {
				return "", err
			}
			return string(line), nil
		}
		if b == '\n' {
			return "", malformed("bare LF in line")
		}
		line = append(line, b)
	}
}

func expectByte(src Source, want byte) error {
	b, err := src.Peek()
	if err != nil {
		return err
	}
	if b != want {
		return malformed("expected byte " + strconv.QuoteRune(rune(want)) + " got " + strconv.QuoteRune(rune(b)))
	}
	src.Advance()
	return nil
}

func expectCRLF(src Source) error {
	if err := expectByte(src, '\r'); err != nil {
		return err
	}
	return expectByte(src, '\n')
}
