/**
 * @description
 * This file defines the line-based console primitives the session loop runs
 * on. Keeping them behind an interface lets the menu flows be driven end to
 * end by scripted input in tests.
 */
package console

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Console is the set of terminal primitives used by the session loop.
type Console interface {
	WriteLine(message string)
	Write(message string)
	// ReadLine returns the next input line without its line ending. The
	// error is non-nil once the input stream is exhausted.
	ReadLine() (string, error)
	Clear()
}

// StdConsole implements Console over the process's stdin and stdout.
type StdConsole struct {
	reader *bufio.Reader
}

// NewStdConsole creates a Console bound to os.Stdin.
func NewStdConsole() *StdConsole {
	return &StdConsole{reader: bufio.NewReader(os.Stdin)}
}

func (c *StdConsole) WriteLine(message string) { fmt.Println(message) }

func (c *StdConsole) Write(message string) { fmt.Print(message) }

func (c *StdConsole) ReadLine() (string, error) {
	line, err := c.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Clear wipes the terminal with the ANSI erase-screen sequence.
func (c *StdConsole) Clear() {
	fmt.Print("\033[2J\033[H")
}
