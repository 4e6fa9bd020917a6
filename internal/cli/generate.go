package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/lightningpass/internal/entropy"
	"github.com/dmitrijs2005/lightningpass/internal/passgen"
)

var errNotEnoughEntropy = errors.New("not enough entropy collected")

// clock is replaced in tests to make keystroke samples reproducible.
var clock = time.Now

// screenWidth bounds the y coordinate of a keystroke sample the way a
// pointer position is bounded by the display.
const screenWidth = 1920

// Generate asks for a policy and prints a password built from typed noise.
func (a *App) Generate(ctx context.Context, _ []string) error {
	opts, err := a.readOptions()
	if err != nil {
		return err
	}
	pw, err := a.generate(ctx, opts)
	if err != nil {
		return err
	}
	a.println("Generated password: " + pw)
	return nil
}

func (a *App) readOptions() (passgen.Options, error) {
	var opts passgen.Options

	l, err := GetDefault(a.reader, fmt.Sprintf("Length (%d-%d)", passgen.MinLength, passgen.MaxLength),
		strconv.Itoa(passgen.MinLength), a.out)
	if err != nil {
		return opts, err
	}
	if opts.Length, err = strconv.Atoi(l); err != nil {
		return opts, passgen.ErrInvalidLength
	}

	classes, err := GetDefault(a.reader, "Character types: d=digits l=lowercase u=uppercase s=symbols", "dlus", a.out)
	if err != nil {
		return opts, err
	}
	classes = strings.ToLower(classes)
	opts.Numbers = strings.ContainsRune(classes, 'd')
	opts.Lowercase = strings.ContainsRune(classes, 'l')
	opts.Uppercase = strings.ContainsRune(classes, 'u')
	opts.Symbols = strings.ContainsRune(classes, 's')

	return opts, opts.Validate()
}

// generate runs one passgen session. Every typed character is one sample:
// its code point and position give x, the time since the prompt gives y.
// An empty line gives up.
func (a *App) generate(ctx context.Context, opts passgen.Options) (string, error) {
	s, err := passgen.NewSession(opts)
	if err != nil {
		return "", err
	}

	a.println(fmt.Sprintf("Type random keys and press Enter until %d characters are collected (empty line cancels).",
		entropy.Capacity))
	start := clock()
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		line, err := readLine(a.reader)
		if err != nil || line == "" {
			return "", errNotEnoughEntropy
		}

		lastTick := -1
		for i, r := range line {
			x := int(r)*31 + i
			y := int(clock().Sub(start).Microseconds() % screenWidth)
			switch s.Move(x, y) {
			case entropy.ProgressTick:
				lastTick = s.Progress()
			case entropy.Done:
				pw, ok := s.Result()
				if !ok {
					return "", errNotEnoughEntropy
				}
				return pw, nil
			}
		}
		if lastTick >= 0 {
			a.println(fmt.Sprintf("%d%%", lastTick))
		}
	}
}
