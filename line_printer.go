package main

import (
	"fmt"
	"os"
	"strconv"
	"syscall"
)

type LineType int8

const (
	FULL  LineType = 0
	ELIDE LineType = 1
)

type LinePrinter struct {
	/// Whether we can do fancy terminal control codes.
	smart_terminal_ bool

	/// Whether we can use ISO 6429 (ANSI) color sequences.
	supports_color_ bool

	/// Whether the caret is at the beginning of a blank line.
	have_blank_line_ bool

	/// Whether console is locked.
	console_locked_ bool

	/// Buffered current line while console is locked.
	line_buffer_ string

	/// Buffered line type while console is locked.
	line_type_ LineType

	/// Buffered console output while console is locked.
	output_buffer_ string
}

// isatty 检查给定的文件描述符是否指向一个终端
func isatty(fd int) bool {
	stat, err := os.Stat(fmt.Sprintf("/proc/self/fd/%d", fd))
	if err != nil {
		return false
	}
	return stat.Mode()&syscall.S_IFMT == syscall.S_IFCHR
}

func NewLinePrinter() *LinePrinter {
	ret := LinePrinter{}
	ret.have_blank_line_ = true
	ret.console_locked_ = false
	term := os.Getenv("TERM")

	ret.smart_terminal_ = isatty(1) && term != "" && term != "dumb"
	ret.supports_color_ = ret.smart_terminal_

	if !ret.supports_color_ {
		clicolor_force := os.Getenv("CLICOLOR_FORCE")
		ret.supports_color_ = clicolor_force != "" && clicolor_force != "0"
	}
	return &ret
}

func (this *LinePrinter) is_smart_terminal() bool       { return this.smart_terminal_ }
func (this *LinePrinter) set_smart_terminal(smart bool) { this.smart_terminal_ = smart }

func (this *LinePrinter) supports_color() bool { return this.supports_color_ }

func getTerminalWidth() int {
	if columns := os.Getenv("COLUMNS"); columns != "" {
		if width, err := strconv.Atoi(columns); err == nil && width > 0 {
			return width
		}
	}
	return 80
}

// / ElideMiddle cuts the middle out of s so it fits in maxWidth columns.
func ElideMiddle(s string, maxWidth int) string {
	if len(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return s[:maxWidth]
	}
	half := (maxWidth - 3) / 2
	return s[:half] + "..." + s[len(s)-half:]
}

// / Overprints the current line.  If type is ELIDE, elides to_print to fit
// / on one line.
func (this *LinePrinter) Print(to_print string, lineType LineType) {
	if this.console_locked_ {
		this.line_buffer_ = to_print
		this.line_type_ = lineType
		return
	}

	if this.smart_terminal_ {
		fmt.Print("\r")
	}

	if this.smart_terminal_ && lineType == ELIDE {
		fmt.Print(ElideMiddle(to_print, getTerminalWidth()))
		fmt.Print("\x1B[K") // clear to end of line
		this.have_blank_line_ = false
	} else {
		fmt.Printf("%s\n", to_print)
	}
}

func (this *LinePrinter) PrintOrBuffer(data string) {
	if this.console_locked_ {
		this.output_buffer_ += data
	} else {
		fmt.Print(data)
	}
}

// / Prints a string on a new line, not overprinting previous output.
func (this *LinePrinter) PrintOnNewLine(to_print string) {
	if this.console_locked_ && this.line_buffer_ != "" {
		this.output_buffer_ += this.line_buffer_
		this.output_buffer_ += string('\n')
		this.line_buffer_ = ""
	}
	if !this.have_blank_line_ {
		this.PrintOrBuffer("\n")
	}
	if to_print != "" {
		this.PrintOrBuffer(to_print)
	}
	this.have_blank_line_ = to_print == "" || to_print[len(to_print)-1] == '\n'
}

// / Lock or unlock the console.  Any output sent to the LinePrinter while
// / the console is locked will not be printed until it is unlocked.
func (this *LinePrinter) SetConsoleLocked(locked bool) {
	if locked == this.console_locked_ {
		return
	}

	if locked {
		this.PrintOnNewLine("")
	}

	this.console_locked_ = locked

	if !locked {
		this.PrintOnNewLine(this.output_buffer_)
		if this.line_buffer_ != "" {
			this.Print(this.line_buffer_, this.line_type_)
		}
		this.output_buffer_ = ""
		this.line_buffer_ = ""
	}
}
