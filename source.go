package sieve

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Source yields raw number tokens in order. Next returns io.EOF once the
// source is exhausted.
type Source interface {
	Next(ctx context.Context) (string, error)
}

// Opener produces a fresh Source positioned at the beginning. A Pipeline
// opens its source again on every Start.
type Opener interface {
	Open(ctx context.Context) (Source, error)
}

// OpenerFunc adapts a function to the Opener interface.
type OpenerFunc func(ctx context.Context) (Source, error)

// Open calls f.
func (f OpenerFunc) Open(ctx context.Context) (Source, error) {
	return f(ctx)
}

// ParseError reports a source token that is not an integer.
type ParseError struct {
	Token string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed token %q: %v", e.Token, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// parseToken converts a raw token to an integer.
func parseToken(token string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(token))
	if err != nil {
		return 0, &ParseError{Token: token, Err: err}
	}
	return n, nil
}

// FileSource opens path and yields its whitespace separated tokens.
// The conventional layout is one number per line.
func FileSource(path string) Opener {
	return OpenerFunc(func(_ context.Context) (Source, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read source %s: %w", path, err)
		}
		scanner := bufio.NewScanner(f)
		scanner.Split(bufio.ScanWords)
		return &fileSource{file: f, scanner: scanner}, nil
	})
}

type fileSource struct {
	file    *os.File
	scanner *bufio.Scanner
}

func (s *fileSource) Next(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.scanner.Scan() {
		return s.scanner.Text(), nil
	}
	if err := s.scanner.Err(); err != nil {
		return "", fmt.Errorf("reading source: %w", err)
	}
	return "", io.EOF
}

func (s *fileSource) Close() error {
	return s.file.Close()
}

// Tokens returns an in-memory Opener yielding tokens verbatim.
func Tokens(tokens ...string) Opener {
	return OpenerFunc(func(_ context.Context) (Source, error) {
		return &sliceSource{tokens: tokens}, nil
	})
}

// Values returns an in-memory Opener yielding the given integers.
func Values(values ...int) Opener {
	tokens := make([]string, len(values))
	for i, v := range values {
		tokens[i] = strconv.Itoa(v)
	}
	return Tokens(tokens...)
}

type sliceSource struct {
	tokens []string
	next   int
}

func (s *sliceSource) Next(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.next >= len(s.tokens) {
		return "", io.EOF
	}
	tok := s.tokens[s.next]
	s.next++
	return tok, nil
}
