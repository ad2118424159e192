// Command filemagic identifies the type of files using magic number rules,
// in the spirit of the Unix file(1) utility.
package main

import (
	"bufio"
	"fmt"
	"os"

	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/shirou/filemagic"
)

var (
	app = kingpin.New("filemagic", "Determine file type using magic rules.")

	brief        = app.Flag("brief", "Do not prepend filenames to output lines.").Short('b').Bool()
	separator    = app.Flag("separator", "Separator to print between filename and result.").Short('F').Default(":").String()
	print0       = app.Flag("print0", "End each output line with a NUL byte instead of a newline.").Short('0').Bool()
	noBuffer     = app.Flag("no-buffer", "Flush output after checking each file.").Short('n').Bool()
	mimeType     = app.Flag("mime-type", "Output only the MIME type of the match, or its description when the matching rule has none.").Bool()
	mimeEncoding = app.Flag("mime-encoding", "Omit filenames from output; no MIME encoding is detected or printed.").Bool()
	mime         = app.Flag("mime", "Same as --mime-type; no MIME encoding is detected or printed.").Short('i').Bool()
	keepGoing    = app.Flag("keep-going", "Keep matching, rather than stopping at the first match.").Short('k').Bool()
	follow       = app.Flag("dereference", "Follow symbolic links.").Short('L').Bool()
	filesFrom    = app.Flag("files-from", "Read filenames to identify from the named file, one per line.").Short('f').String()
	list         = app.Flag("list", "List the loaded magic rules and exit.").Short('l').Bool()
	debug        = app.Flag("debug", "Print debugging diagnostics to stderr.").Short('d').Bool()
	magicFiles   = app.Flag("magic-file", "Use the named magic file(s) instead of the default search path.").Short('m').Strings()

	files = app.Arg("file", "Files to identify.").Strings()
)

func main() {
	app.Version(filemagic.Version)
	kingpin.MustParse(app.Parse(os.Args[1:]))

	opts := filemagic.Options{
		MagicFiles:     *magicFiles,
		FollowSymlinks: *follow,
		Brief:          *brief,
		MimeType:       *mimeType || *mime,
		MimeEncoding:   *mimeEncoding || *mime,
		KeepGoing:      *keepGoing,
		Debug:          *debug,
	}

	f, err := filemagic.NewWithOptions(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "filemagic: %v\n", err)
		os.Exit(1)
	}

	if *list {
		for _, line := range f.ListMagic() {
			fmt.Println(line)
		}
		return
	}

	targets, err := collectTargets(*files, *filesFrom)
	if err != nil {
		fmt.Fprintf(os.Stderr, "filemagic: %v\n", err)
		os.Exit(1)
	}
	if len(targets) == 0 {
		app.Usage(os.Args[1:])
		os.Exit(1)
	}

	out := bufio.NewWriter(os.Stdout)
	if !*noBuffer {
		defer out.Flush()
	}

	exitCode := 0
	for _, path := range targets {
		result, err := f.IdentifyFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			exitCode = 1
			continue
		}
		printResult(out, path, result)
		if *noBuffer {
			out.Flush()
		}
	}
	out.Flush()
	os.Exit(exitCode)
}

// printResult writes one line of output, honoring brief/MIME-only modes,
// the filename separator, and the -0/--print0 NUL terminator.
func printResult(out *bufio.Writer, path, result string) {
	if *brief || *mimeType || *mimeEncoding || *mime {
		fmt.Fprintln(out, result)
		return
	}
	fmt.Fprintf(out, "%s%s %s", path, *separator, result)
	if *print0 {
		out.WriteByte(0)
	} else {
		out.WriteByte('\n')
	}
}

// collectTargets merges positional file arguments with names read from
// --files-from, one filename per line.
func collectTargets(args []string, listFile string) ([]string, error) {
	targets := append([]string{}, args...)
	if listFile == "" {
		return targets, nil
	}
	f, err := os.Open(listFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			targets = append(targets, line)
		}
	}
	return targets, scanner.Err()
}
