package calculator

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// Token is a single lexical element of an input line.
type Token struct {
	// Text is the token's text. Sign runs are folded, so the text of a
	// delimiter made from "--+-" is "-".
	Text string
	// Kind is the token's kind.
	Kind TokenKind
	// Pos is the column of the token's first rune, starting at 1.
	Pos int
}

func (t Token) String() string {
	return t.Kind.String() + ":" + t.Text + "@" + strconv.Itoa(t.Pos)
}

// TokenKind is the kind of a token.
type TokenKind int8

const (
	tokenNone TokenKind = iota
	// TokenIdent is a variable name, one or more ASCII letters.
	TokenIdent
	// TokenNum is an integer literal, one or more ASCII digits.
	TokenNum
	// TokenDelim is an operator, a bracket, or =.
	TokenDelim
)

func (k TokenKind) String() string {
	switch k {
	case tokenNone:
		return "None"
	case TokenIdent:
		return "Ident"
	case TokenNum:
		return "Num"
	case TokenDelim:
		return "Delim"
	default:
		return "TokenKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Delimiters contains the runes which are single-rune delimiter tokens. Sign
// runes are handled separately because runs of them fold into one token.
const Delimiters = "=*/()^"

type lexer struct {
	src  io.RuneScanner
	buf  strings.Builder
	rune int
}

func lex(src io.RuneScanner) *lexer {
	return &lexer{
		src:  src,
		rune: 1,
	}
}

// Tokenize splits a line into tokens. The result is nil with a *LexError if
// the line contains a rune that cannot start a token or a number runs directly
// into a letter.
func Tokenize(line string) ([]Token, error) {
	scan := lex(strings.NewReader(line))
	var toks []Token
	for {
		tok, err := scan.next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return toks, nil
			}
			return nil, err
		}
		toks = append(toks, tok)
	}
}

// readRune reads a rune from the src and updates the lexer's position info.
func (l *lexer) readRune() (r rune, err error) {
	r, sz, err := l.src.ReadRune()
	if sz > 0 {
		l.rune++
	}
	return r, err
}

// unreadRune unreads a rune from the src and updates the lexer's position
// info. Panics if unreading returns an error.
func (l *lexer) unreadRune() {
	if err := l.src.UnreadRune(); err != nil {
		panic(err)
	}
	l.rune--
}

// next scans the next token from the input. At the end of the input, the
// result is an empty token with io.EOF.
func (l *lexer) next() (Token, error) {
	defer l.buf.Reset()
	for {
		tok := Token{Pos: l.rune}
		r, err := l.readRune()
		if err != nil {
			return Token{}, err
		}
		switch {
		case unicode.IsSpace(r):
			continue
		case isDigit(r):
			l.unreadRune()
			if err := l.scanNum(); err != nil {
				return Token{}, err
			}
			tok.Text = l.buf.String()
			tok.Kind = TokenNum
			return tok, nil
		case isLetter(r):
			l.unreadRune()
			if err := l.scanIdent(); err != nil {
				return Token{}, err
			}
			tok.Text = l.buf.String()
			tok.Kind = TokenIdent
			return tok, nil
		case r == '+', r == '-':
			l.unreadRune()
			if err := l.scanSigns(); err != nil {
				return Token{}, err
			}
			tok.Text = l.buf.String()
			tok.Kind = TokenDelim
			return tok, nil
		case strings.ContainsRune(Delimiters, r):
			tok.Text = string(r)
			tok.Kind = TokenDelim
			return tok, nil
		default:
			// Write the rune so that it shows up in the error message.
			l.buf.WriteRune(r)
			return Token{}, l.error("", tok.Pos)
		}
	}
}

func (l *lexer) scanNum() error {
	start := l.rune
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		switch {
		case isDigit(r):
			l.buf.WriteRune(r)
		case isLetter(r):
			// 12a is neither a number nor a name.
			l.buf.WriteRune(r)
			return l.error("number", start)
		default:
			l.unreadRune()
			return nil
		}
	}
}

func (l *lexer) scanIdent() error {
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				// next unreads the rune that decides ident scanning before
				// calling scanIdent, so we have scanned at least one rune.
				return nil
			}
			return err
		}
		if !isLetter(r) {
			l.unreadRune()
			return nil
		}
		l.buf.WriteRune(r)
	}
}

// scanSigns folds a run of + and - into a single sign.
func (l *lexer) scanSigns() error {
	neg := false
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		if r == '-' {
			neg = !neg
			continue
		}
		if r != '+' {
			l.unreadRune()
			break
		}
	}
	if neg {
		l.buf.WriteByte('-')
	} else {
		l.buf.WriteByte('+')
	}
	return nil
}

func (l *lexer) error(kind string, col int) error {
	return &LexError{
		Text: l.buf.String(),
		Kind: kind,
		Col:  col,
	}
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z'
}

// IsIdent returns whether s is a valid variable name, i.e. one or more ASCII
// letters and nothing else.
func IsIdent(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isLetter(r) {
			return false
		}
	}
	return true
}

// LexError indicates an invalid token. It implements InputError.
type LexError struct {
	// Text is the token the lexer was scanning when the invalid rune was
	// encountered, plus the invalid rune.
	Text string
	// Kind is the type of token the lexer was scanning. This is "number" or
	// the empty string (if a token kind hadn't been decided).
	Kind string
	// Col is the column of the start of the invalid token.
	Col int
}

func (err *LexError) Error() string {
	pos := "column " + strconv.Itoa(err.Col)
	if err.Kind == "" {
		return "invalid token at " + pos + ": " + strconv.Quote(err.Text)
	}
	return "invalid " + err.Kind + " token at " + pos + ": " + strconv.Quote(err.Text)
}

func (err *LexError) Pos() int {
	return err.Col
}

func (err *LexError) Is(target error) bool {
	return target == ErrInvalidExpression
}
