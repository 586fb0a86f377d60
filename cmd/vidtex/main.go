// Command vidtex is a Level 1 Viewdata/Teletext terminal client. It dials a
// videotex host over TCP, decodes the presentation byte stream onto a
// 40x24 character grid rendered as ANSI escape sequences, and supports the
// embedded Telesoftware file-download protocol.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/simonlaszcz/vidtex"
	"github.com/simonlaszcz/vidtex/internal/config"
	"github.com/simonlaszcz/vidtex/internal/session"
)

const version = "0.1.0"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "vidtex:", err)
		os.Exit(1)
	}
}

type cliFlags struct {
	host    string
	port    int
	profile string
	dump    string
	trace   string
	menu    bool
	mono    bool
	bold    bool
	galax   bool
	file    string
	help    bool
	version bool
}

func run(args []string) error {
	flags, fs, err := parseFlags(args)
	if err != nil {
		return err
	}
	if flags.help {
		fs.Usage()
		return nil
	}
	if flags.version {
		fmt.Println("vidtex", version)
		return nil
	}

	logger, err := buildLogger(flags.trace)
	if err != nil {
		return errors.Wrap(err, "vidtex: logger setup")
	}
	defer logger.Sync() //nolint:errcheck

	if flags.file != "" {
		return replaySavedFrame(flags.file, flags.galax, flags.mono, flags.bold)
	}

	host, port, preamble, postamble, err := resolveTarget(flags)
	if err != nil {
		return err
	}

	return dialAndRun(host, port, preamble, postamble, flags, logger)
}

func parseFlags(args []string) (cliFlags, *flag.FlagSet, error) {
	var f cliFlags
	fs := flag.NewFlagSet("vidtex", flag.ContinueOnError)

	fs.StringVar(&f.host, "host", "", "videotex host to dial")
	fs.IntVar(&f.port, "port", 6502, "videotex port to dial")
	fs.StringVar(&f.profile, "menu", "", "named profile from vidtexrc to dial instead of -host/-port")
	fs.StringVar(&f.dump, "dump", "", "write raw received bytes to this file")
	fs.StringVar(&f.trace, "trace", "", "write structured session logs to this file instead of stderr")
	fs.BoolVar(&f.mono, "mono", false, "render in monochrome")
	fs.BoolVar(&f.bold, "bold", false, "force bold rendering")
	fs.BoolVar(&f.galax, "galax", false, "use the Galax character set instead of Bedstead")
	fs.StringVar(&f.file, "file", "", "render a previously saved frame instead of connecting")
	fs.BoolVar(&f.help, "help", false, "show usage")
	fs.BoolVar(&f.version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return f, fs, err
	}
	return f, fs, nil
}

// buildLogger sends structured logs to stderr by default, or to a
// lumberjack-rotated file when -trace is set.
func buildLogger(traceFile string) (*zap.Logger, error) {
	if traceFile == "" {
		return zap.NewProduction()
	}

	sink := &lumberjack.Logger{
		Filename:   traceFile,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
	}

	encoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	core := zapcore.NewCore(encoder, zapcore.AddSync(sink), zap.InfoLevel)
	return zap.New(core, zap.AddCaller()), nil
}

func resolveTarget(flags cliFlags) (host string, port int, preamble, postamble []byte, err error) {
	if flags.profile == "" {
		if flags.host == "" {
			return "", 0, nil, nil, errors.New("vidtex: -host or -menu is required")
		}
		return flags.host, flags.port, nil, config.DefaultPostamble, nil
	}

	profiles, err := config.Load()
	if err != nil {
		return "", 0, nil, nil, errors.Wrap(err, "vidtex: load vidtexrc")
	}
	p, ok := profiles[flags.profile]
	if !ok {
		return "", 0, nil, nil, errors.Errorf("vidtex: no profile named %q in vidtexrc", flags.profile)
	}

	postamble = p.Postamble
	if len(postamble) == 0 {
		postamble = config.DefaultPostamble
	}
	return p.Host, p.Port, p.Preamble, postamble, nil
}

func dialAndRun(host string, port int, preamble, postamble []byte, flags cliFlags, logger *zap.Logger) error {
	addr := net.JoinHostPort(host, fmt.Sprintf("%d", port))
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "vidtex: dial %s", addr)
	}
	defer conn.Close()

	var dumpFile *os.File
	if flags.dump != "" {
		dumpFile, err = os.Create(flags.dump)
		if err != nil {
			return errors.Wrapf(err, "vidtex: create dump file %s", flags.dump)
		}
		defer dumpFile.Close()
	}

	backend := newAnsiBackend(os.Stdout)

	charMap := vidtex.CharMapBedstead
	if flags.galax {
		charMap = vidtex.CharMapGalax
	}
	presenter := vidtex.NewPresentationDecoder(backend, vidtex.WithCharMap(charMap), vidtex.WithCursorOn(true))
	presenter.Display().SetMono(flags.mono)
	presenter.Display().SetBoldOverride(flags.bold)

	keyboard, restore, err := rawKeyboard()
	if err != nil {
		return errors.Wrap(err, "vidtex: enable raw keyboard mode")
	}
	defer restore()

	var netReader io.Reader = conn
	if dumpFile != nil {
		netReader = io.TeeReader(conn, dumpFile)
	}

	loop := session.New(teeConn{Conn: conn, r: netReader}, keyboard, presenter,
		session.WithLogger(logger),
		session.WithProfile(&config.Profile{Preamble: preamble, Postamble: postamble}),
		session.WithDownloadSink(downloadSink),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return loop.Run(ctx)
}

// teeConn substitutes r for Read so a -dump tee can sit between the raw
// socket and the session loop without the loop needing to know about it.
type teeConn struct {
	net.Conn
	r io.Reader
}

func (t teeConn) Read(p []byte) (int, error) { return t.r.Read(p) }

func rawKeyboard() (io.Reader, func(), error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return os.Stdin, func() {}, nil
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, nil, err
	}
	return os.Stdin, func() { term.Restore(fd, oldState) }, nil
}

// downloadSink opens the announced filename in the current directory,
// stripped of any path components a hostile header might carry.
func downloadSink(filename string) (io.WriteCloser, error) {
	name := filepath.Base(filename)
	if name == "." || name == string(filepath.Separator) || name == "" {
		name = "vidtex-download.bin"
	}
	return os.Create(name)
}

func replaySavedFrame(path string, galax, mono, bold bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "vidtex: read saved frame %s", path)
	}

	backend := newAnsiBackend(os.Stdout)

	charMap := vidtex.CharMapBedstead
	if galax {
		charMap = vidtex.CharMapGalax
	}
	presenter := vidtex.NewPresentationDecoder(backend, vidtex.WithCharMap(charMap))
	presenter.Display().SetMono(mono)
	presenter.Display().SetBoldOverride(bold)
	presenter.Decode(data)
	return nil
}
