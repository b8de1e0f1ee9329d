package main

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"

	"git.sr.ht/~sircmpwn/getopt"
	"github.com/ahrtr/gocontainer/queue/priorityqueue"
	"github.com/fatih/color"

	"scopedstring-go/scopedstring"
)

type Verbosity int8

const (
	QUIET            Verbosity = 0
	NO_STATUS_UPDATE Verbosity = 1
	NORMAL           Verbosity = 2
	VERBOSE          Verbosity = 3
)

// / Global settings for a tool run.
type RunConfig struct {
	Verbosity   Verbosity
	Parallelism int
}

func NewRunConfig() *RunConfig {
	ret := RunConfig{Verbosity: NORMAL, Parallelism: 1}
	return &ret
}

// / Command-line options.
type Options struct {
	/// Input to scan; "-" reads standard input.
	InputFile string

	/// Directory to change into before running.
	WorkingDir string

	/// Tool to run rather than the default report.
	Tool *Tool
}

type When int8

const (
	/// Run after parsing the command-line flags (as early as possible).
	RUN_AFTER_FLAGS When = 0

	/// Run after loading the input buffer.
	RUN_AFTER_LOAD = 1
)

// / The type of functions that are the entry points to tools (subcommands).
type ToolFunc func(*SstoolMain, *Options, *[]string) int

// / Subtools, accessible via "-t foo".
type Tool struct {
	/// Short name of the tool.
	Name string

	/// Description (shown in "-t list").
	Desc string

	/// When to run the tool.
	When When

	/// Implementation of the tool.
	Func1 ToolFunc
}

type SstoolMain struct {
	/// Command line used to run sstool.
	SstoolCommand string

	/// Settings from flags (verbosity, parallelism).
	Config_ *RunConfig

	/// Raw input; every view the tools cut aliases this buffer.
	Input_ []byte

	/// Canonical views for repeated line content.
	Pool_ *scopedstring.StringPool

	/// Status output.
	Printer_ *LinePrinter

	StartTimeMillis int64
}

func NewSstoolMain(sstool_command string, config *RunConfig) *SstoolMain {
	ret := SstoolMain{}
	ret.SstoolCommand = sstool_command
	ret.Config_ = config
	ret.Pool_ = scopedstring.NewStringPool()
	ret.Printer_ = NewLinePrinter()
	ret.StartTimeMillis = GetTimeMillis()
	return &ret
}

// / Read the input file (or stdin for "-") into the scan buffer.
func (this *SstoolMain) LoadInput(options *Options) bool {
	defer MetricRecord("load input").Release()
	var data []byte
	var err error
	if options.InputFile == "" || options.InputFile == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(options.InputFile)
	}
	if err != nil {
		Error("loading '%s': %s", options.InputFile, err)
		return false
	}
	this.Input_ = data
	return true
}

// / Cut the input buffer into line views, blanks and all.
func (this *SstoolMain) ScanLines() []*scopedstring.ScopedString {
	defer MetricRecord("scan lines").Release()
	scanner := scopedstring.NewLineScanner(this.Input_)
	var lines []*scopedstring.ScopedString
	for v := scanner.Next(); v != nil; v = scanner.Next() {
		lines = append(lines, v)
	}
	return lines
}

func (this *SstoolMain) DumpMetrics() {
	GMetrics.Report()
	fmt.Printf("\n")
	st := this.Pool_.Stats()
	fmt.Printf("pool %d entries, %d hits, %d misses\n", st.Entries, st.Hits, st.Misses)
}

// / strip whitespace (or -c BYTE) off both ends of every line
func (this *SstoolMain) ToolTrim(options *Options, args *[]string) int {
	// The trim tool uses getopt, and expects args[0] to contain the name of
	// the tool, i.e. "trim".
	opts, optind, err1 := getopt.Getopts(*args, "c:")
	if err1 != nil {
		log.Fatalln(err1)
	}
	trimByte := byte(0)
	for _, optV := range opts {
		switch optV.Option {
		case 'c':
			if len(optV.Value) != 1 {
				Error("-c wants a single byte, got '%s'", optV.Value)
				return 1
			}
			trimByte = optV.Value[0]
		}
	}
	*args = (*args)[optind:]

	defer MetricRecord("tool trim").Release()
	for _, line := range this.ScanLines() {
		if trimByte != 0 {
			line.TrimChar(trimByte)
		} else {
			line.Trim()
		}
		fmt.Printf("%s\n", line.AsString())
	}
	return 0
}

// / report the first offset of -c BYTE in every line
func (this *SstoolMain) ToolFind(options *Options, args *[]string) int {
	opts, optind, err1 := getopt.Getopts(*args, "c:a")
	if err1 != nil {
		log.Fatalln(err1)
	}
	needle := byte(0)
	showMisses := false
	for _, optV := range opts {
		switch optV.Option {
		case 'c':
			if len(optV.Value) != 1 {
				Error("-c wants a single byte, got '%s'", optV.Value)
				return 1
			}
			needle = optV.Value[0]
		case 'a':
			showMisses = true
		}
	}
	*args = (*args)[optind:]
	if needle == 0 {
		Error("find needs -c BYTE")
		return 1
	}

	defer MetricRecord("tool find").Release()
	for i, line := range this.ScanLines() {
		offset := line.Find(needle)
		if offset >= 0 {
			fmt.Printf("%d:%d\n", i+1, offset)
		} else if showMisses {
			fmt.Printf("%d:-1\n", i+1)
		}
	}
	return 0
}

// / cut every line to the START[:SIZE] window given in args
func (this *SstoolMain) ToolSubstr(options *Options, args *[]string) int {
	// args[0] holds the tool name. The window spec is read positionally
	// since negative values ("-1:3") would parse as flags.
	rest := (*args)[1:]
	if len(rest) == 0 {
		Error("substr needs a START or START:SIZE argument (negative values count from the end; put them after --)")
		return 1
	}
	spec := rest[0]
	startStr, sizeStr, hasSize := strings.Cut(spec, ":")
	start, err1 := strconv.Atoi(startStr)
	if err1 != nil {
		Error("bad start in '%s'", spec)
		return 1
	}
	size := 0
	if hasSize {
		var err2 error
		size, err2 = strconv.Atoi(sizeStr)
		if err2 != nil {
			Error("bad size in '%s'", spec)
			return 1
		}
	}

	defer MetricRecord("tool substr").Release()
	for _, line := range this.ScanLines() {
		var window *scopedstring.ScopedString
		if hasSize {
			window = line.SubstrLen(start, size)
		} else {
			window = line.Substr(start)
		}
		fmt.Printf("%s\n", window.AsString())
	}
	return 0
}

// / print content hashes for every line
func (this *SstoolMain) ToolHash(options *Options, args *[]string) int {
	opts, optind, err1 := getopt.Getopts(*args, "r")
	if err1 != nil {
		log.Fatalln(err1)
	}
	withRapid := false
	for _, optV := range opts {
		switch optV.Option {
		case 'r':
			withRapid = true
		}
	}
	*args = (*args)[optind:]

	defer MetricRecord("tool hash").Release()
	lines := this.ScanLines()

	type row struct {
		hash   uint32
		hash64 uint64
	}
	rows := make([]row, len(lines))

	workers := this.Config_.Parallelism
	if workers < 1 {
		workers = 1
	}
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				rows[i].hash = lines[i].Hash()
				if withRapid {
					rows[i].hash64 = scopedstring.Rapidhash64(lines[i].Data())
				}
			}
		}()
	}
	status := this.Printer_.is_smart_terminal() && this.Config_.Verbosity >= NORMAL
	refresh := NewStopwatch()
	refresh.Restart()
	for i := range lines {
		// Limit repainting to once per 100ms to keep the terminal readable.
		if status && (i == 0 || refresh.Elapsed() > 0.1) {
			this.Printer_.Print(fmt.Sprintf("[%d/%d] hashing", i, len(lines)), ELIDE)
			refresh.Restart()
		}
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	if status {
		this.Printer_.PrintOnNewLine("")
	}

	for i, line := range lines {
		if withRapid {
			fmt.Printf("%08x %016x %s\n", rows[i].hash, rows[i].hash64, line.CStr())
		} else {
			fmt.Printf("%08x %s\n", rows[i].hash, line.CStr())
		}
	}
	if this.Config_.Verbosity == VERBOSE {
		whole := scopedstring.NewScopedStringFromBytes(this.Input_)
		Info("%d bytes in, buffer hash %08x", len(this.Input_), whole.Hash())
	}
	return 0
}

// / print each distinct line once, interned through the pool
func (this *SstoolMain) ToolUniq(options *Options, args *[]string) int {
	opts, optind, err1 := getopt.Getopts(*args, "n")
	if err1 != nil {
		log.Fatalln(err1)
	}
	showCounts := false
	for _, optV := range opts {
		switch optV.Option {
		case 'n':
			showCounts = true
		}
	}
	*args = (*args)[optind:]

	defer MetricRecord("tool uniq").Release()
	counts := make(map[*scopedstring.ScopedString]int)
	var order []*scopedstring.ScopedString
	for _, line := range this.ScanLines() {
		canon := this.Pool_.Intern(line.Data())
		if counts[canon] == 0 {
			order = append(order, canon)
		}
		counts[canon]++
	}
	for _, canon := range order {
		if showCounts {
			fmt.Printf("%7d %s\n", counts[canon], canon.AsString())
		} else {
			fmt.Printf("%s\n", canon.AsString())
		}
	}
	return 0
}

type lineCount struct {
	line  *scopedstring.ScopedString
	count int
}

// / Orders line/count pairs so the least frequent polls first.
type lineCountCmp struct{}

func (cmp *lineCountCmp) Compare(v1, v2 interface{}) (int, error) {
	c1 := v1.(*lineCount)
	c2 := v2.(*lineCount)
	if c1.count < c2.count {
		return -1, nil
	}
	if c1.count > c2.count {
		return 1, nil
	}
	return 0, nil
}

// / print the most frequent lines
func (this *SstoolMain) ToolFreq(options *Options, args *[]string) int {
	opts, optind, err1 := getopt.Getopts(*args, "n:")
	if err1 != nil {
		log.Fatalln(err1)
	}
	topN := 10
	for _, optV := range opts {
		switch optV.Option {
		case 'n':
			value, err2 := strconv.Atoi(optV.Value)
			if err2 != nil || value <= 0 {
				Error("invalid -n parameter")
				return 1
			}
			topN = value
		}
	}
	*args = (*args)[optind:]

	defer MetricRecord("tool freq").Release()
	counts := make(map[*scopedstring.ScopedString]*lineCount)
	for _, line := range this.ScanLines() {
		canon := this.Pool_.Intern(line.Data())
		lc := counts[canon]
		if lc == nil {
			lc = &lineCount{line: canon}
			counts[canon] = lc
		}
		lc.count++
	}

	// Keep the N most frequent by polling the least frequent off whenever
	// the queue runs over.
	queue := priorityqueue.New().WithComparator(&lineCountCmp{})
	for _, lc := range counts {
		queue.Add(lc)
		if queue.Size() > topN {
			queue.Poll()
		}
	}

	out := make([]*lineCount, 0, queue.Size())
	for !queue.IsEmpty() {
		out = append(out, queue.Poll().(*lineCount))
	}
	for i := len(out) - 1; i >= 0; i-- {
		fmt.Printf("%7d %s\n", out[i].count, out[i].line.CStr())
	}
	return 0
}

// / summarize the input buffer and pool behavior
func (this *SstoolMain) ToolStats(options *Options, args *[]string) int {
	opts, optind, err1 := getopt.Getopts(*args, "j")
	if err1 != nil {
		log.Fatalln(err1)
	}
	jsonOut := false
	for _, optV := range opts {
		switch optV.Option {
		case 'j':
			jsonOut = true
		}
	}
	*args = (*args)[optind:]

	defer MetricRecord("tool stats").Release()
	lines := this.ScanLines()

	blank := 0
	lineBytes := 0
	var longest *scopedstring.ScopedString
	for _, line := range lines {
		if len(bytes.TrimSpace(line.Data())) == 0 {
			blank++
		}
		lineBytes += line.Size()
		if longest == nil || line.Size() > longest.Size() {
			longest = line
		}
		this.Pool_.Intern(line.Data())
	}
	st := this.Pool_.Stats()
	whole := scopedstring.NewScopedStringFromBytes(this.Input_)

	if jsonOut {
		stats := &InputStats{
			Input:         options.InputFile,
			Bytes:         len(this.Input_),
			Lines:         len(lines),
			BlankLines:    blank,
			LineBytes:     lineBytes,
			DistinctLines: st.Entries,
			RepeatedLines: int(st.Hits),
			Hash:          fmt.Sprintf("%08x", whole.Hash()),
			Rapidhash:     fmt.Sprintf("%016x", scopedstring.Rapidhash64(this.Input_)),
		}
		if longest != nil {
			stats.LongestLine = longest.Size()
		}
		return PrintJSONObject(stats)
	}

	if this.Printer_.supports_color() {
		color.Blue("input: %s", options.InputFile)
	} else {
		fmt.Printf("input: %s\n", options.InputFile)
	}
	fmt.Printf("bytes:           %8d\n", len(this.Input_))
	fmt.Printf("lines:           %8d\n", len(lines))
	fmt.Printf("blank lines:     %8d\n", blank)
	fmt.Printf("line bytes:      %8d\n", lineBytes)
	fmt.Printf("distinct lines:  %8d\n", st.Entries)
	fmt.Printf("repeated lines:  %8d\n", st.Hits)
	if longest != nil {
		fmt.Printf("longest line:    %8d  %s\n", longest.Size(), longest.CStr())
	}
	fmt.Printf("buffer hash:     %08x  rapidhash %016x\n",
		whole.Hash(), scopedstring.Rapidhash64(this.Input_))
	return 0
}

// / Choose a default value for the -j (parallelism) flag.
func GuessParallelism() int {
	processors := GetProcessorCount()
	switch processors {
	case 0, 1:
		return 2
	case 2:
		return 3
	default:
		return processors + 2
	}
}

type DeferGuessParallelism struct {
	needGuess bool
	config    *RunConfig
}

func NewDeferGuessParallelism(config *RunConfig) *DeferGuessParallelism {
	ret := DeferGuessParallelism{}
	ret.needGuess = true
	ret.config = config
	return &ret
}

func (this *DeferGuessParallelism) Refresh() {
	if this.needGuess {
		this.needGuess = false
		this.config.Parallelism = GuessParallelism()
	}
}
func (this *DeferGuessParallelism) ReleaseDeferGuessParallelism() { this.Refresh() }

func Usage(config *RunConfig) {
	fmt.Fprintf(os.Stderr, `usage: sstool [options] [-- TOOL ARGS]

options:
  -f FILE  input to scan (default "-", standard input)
  -t TOOL  run a subtool (use '-t list' to list subtools)
    terminate toplevel options; further flags belong to the tool
  -j N     hash with N parallel workers [default=%d from CPUs]
  -d MODE  enable debugging (use '-d list' to list modes)
  -r VER   require at least sstool version VER
  -C DIR   change to DIR before reading input
  -v       verbose output
  -q       quiet (no status updates)
  -V       print sstool version
`, config.Parallelism)
}

// / Parse argv for command-line options.
// / Returns an exit code, or -1 if sstool should keep going.
func ReadFlags(args *[]string, options *Options, config *RunConfig) int {
	deferGuessParallelism := NewDeferGuessParallelism(config)
	defer deferGuessParallelism.ReleaseDeferGuessParallelism()

	opts, optind, err := getopt.Getopts(*args, "f:j:t:d:r:C:vqVh")
	if err != nil {
		log.Fatalln(err)
	}
	*args = (*args)[optind:]
	for _, optV := range opts {
		opt := optV.Option
		optarg := optV.Value
		switch opt {
		case 'f':
			options.InputFile = optarg
		case 'j':
			value, err := strconv.Atoi(optarg)
			if err != nil || value < 0 {
				log.Fatalln("invalid -j parameter")
			}

			// 0 asks for the processor-derived default.
			if value > 0 {
				config.Parallelism = value
			} else {
				config.Parallelism = GuessParallelism()
			}
			deferGuessParallelism.needGuess = false
		case 't':
			options.Tool = ChooseTool(optarg)
			if options.Tool == nil {
				return 0
			}
		case 'd':
			if !DebugEnable(optarg) {
				return 1
			}
		case 'r':
			CheckSstoolVersion(optarg)
		case 'C':
			options.WorkingDir = optarg
		case 'v':
			config.Verbosity = VERBOSE
		case 'q':
			config.Verbosity = NO_STATUS_UPDATE
		case 'V':
			fmt.Printf("%s\n", kSstoolVersion)
			return 0
		default: // case 'h':
			deferGuessParallelism.Refresh()
			Usage(config)
			return 1
		}
	}
	return -1
}

// / Enable a debugging mode.  Returns false if sstool should exit
// / instead of continuing.
func DebugEnable(name string) bool {
	if name == "list" {
		fmt.Printf("debugging modes:\n" +
			"  stats    print operation counts/timing info\n" +
			"multiple modes can be enabled via -d FOO -d BAR\n")
		return false
	} else if name == "stats" {
		GMetrics = NewMetrics()
		return true
	} else {
		suggestion := SpellcheckString(name, "stats")
		if suggestion != "" {
			Error("unknown debug setting '%s', did you mean '%s'?", name, suggestion)
		} else {
			Error("unknown debug setting '%s'", name)
		}
		return false
	}
}

func ChooseTool(tool_name string) *Tool {
	kTools := []Tool{
		{"trim", "strip whitespace (or -c BYTE) off both ends of every line",
			RUN_AFTER_LOAD, (*SstoolMain).ToolTrim},
		{"find", "report the first offset of -c BYTE in every line",
			RUN_AFTER_LOAD, (*SstoolMain).ToolFind},
		{"substr", "cut every line to the START[:SIZE] window given in args",
			RUN_AFTER_LOAD, (*SstoolMain).ToolSubstr},
		{"hash", "print content hashes for every line (-r adds rapidhash)",
			RUN_AFTER_LOAD, (*SstoolMain).ToolHash},
		{"uniq", "print each distinct line once (-n adds counts)",
			RUN_AFTER_LOAD, (*SstoolMain).ToolUniq},
		{"freq", "print the most frequent lines (-n N, default 10)",
			RUN_AFTER_LOAD, (*SstoolMain).ToolFreq},
		{"stats", "summarize the input buffer and pool behavior (-j for JSON)",
			RUN_AFTER_LOAD, (*SstoolMain).ToolStats},
		{"", "", RUN_AFTER_FLAGS, nil},
	}

	if tool_name == "list" {
		fmt.Printf("sstool subtools:\n")
		for _, tool := range kTools {
			if tool.Desc != "" {
				fmt.Printf("%11s  %s\n", tool.Name, tool.Desc)
			}
		}
		return nil
	}

	for _, tool := range kTools {
		if tool.Name != "" && tool.Name == tool_name {
			return &tool
		}
	}

	words := []string{}
	for _, tool := range kTools {
		if tool.Name != "" {
			words = append(words, tool.Name)
		}
	}
	suggestion := SpellcheckString(tool_name, words...)
	if suggestion != "" {
		log.Fatalf("unknown tool '%s', did you mean '%s'?", tool_name, suggestion)
	} else {
		log.Fatalf("unknown tool '%s'", tool_name)
	}
	return nil // Not reached.
}

// / The tool run when no -t is given.
func DefaultTool() *Tool {
	return ChooseTool("stats")
}
