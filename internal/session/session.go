// Package session implements the top-level dispatch loop that multiplexes
// network input, keyboard input, and a one-second flash timer, driving a
// PresentationDecoder and a TelesoftwareDecoder over the same byte stream.
//
// Each blocking input source gets a reader goroutine feeding a channel,
// and a single select loop consumes those channels in order. The decoders
// themselves are only ever touched from that one consuming goroutine, so
// bytes are processed strictly in arrival order and the flash tick never
// interleaves mid-byte.
package session

import (
	"bufio"
	"context"
	"io"
	"net"
	"os"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/simonlaszcz/vidtex"
	"github.com/simonlaszcz/vidtex/internal/config"
)

// FlashPeriod is the screen-wide flash blink interval.
const FlashPeriod = 1 * time.Second

// PreambleLead is the byte sent on connect before any profile-specific
// bytes.
const PreambleLead = 22

// keyboardAction identifies a local action triggered by a keyboard chord,
// rather than a byte forwarded to the remote.
type keyboardAction int

const (
	actionNone keyboardAction = iota
	actionToggleReveal
	actionInitiateDownload
	actionSaveFrame
	actionToggleBold
)

// Keyboard chords that trigger local actions instead of being forwarded.
var keyboardActions = map[byte]keyboardAction{
	0x12: actionToggleReveal,     // Ctrl-R
	0x04: actionInitiateDownload, // Ctrl-D
	0x13: actionSaveFrame,        // Ctrl-S
	0x02: actionToggleBold,       // Ctrl-B
}

// Loop owns the sockets, decoders, and file handles for one session and
// releases them on a single exit path.
type Loop struct {
	conn      net.Conn
	keyboard  io.Reader
	logger    *zap.Logger
	presenter *vidtex.PresentationDecoder
	tele      *vidtex.TelesoftwareDecoder
	display   *vidtex.Display

	profile    *config.Profile
	postamble  []byte
	downloadTo func(filename string) (io.WriteCloser, error)

	armed        bool
	downloading  bool
	downloadFile io.WriteCloser
	bold         bool
}

// Option configures a Loop during construction.
type Option func(*Loop)

// WithProfile sets the connection profile (preamble/postamble bytes).
func WithProfile(p *config.Profile) Option {
	return func(l *Loop) { l.profile = p }
}

// WithLogger sets the structured logger. Defaults to zap.NewNop().
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loop) { l.logger = logger }
}

// WithDownloadSink sets the factory used to open a destination for a
// completed Telesoftware header, keyed by the filename the header
// announced. Defaults to refusing all downloads.
func WithDownloadSink(fn func(filename string) (io.WriteCloser, error)) Option {
	return func(l *Loop) { l.downloadTo = fn }
}

// New builds a Loop over an already-connected conn and a keyboard reader
// (typically a raw-mode stdin; see cmd/vidtex).
func New(conn net.Conn, keyboard io.Reader, presenter *vidtex.PresentationDecoder, opts ...Option) *Loop {
	l := &Loop{
		conn:      conn,
		keyboard:  keyboard,
		presenter: presenter,
		display:   presenter.Display(),
		tele:      vidtex.NewTelesoftwareDecoder(),
		logger:    zap.NewNop(),
		postamble: config.DefaultPostamble,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.profile != nil && len(l.profile.Postamble) > 0 {
		l.postamble = l.profile.Postamble
	}
	return l
}

// Run sends the preamble, then multiplexes network/keyboard/flash-timer
// input until ctx is cancelled or the peer closes the connection, sending
// the postamble before returning.
func (l *Loop) Run(ctx context.Context) error {
	if err := l.sendPreamble(); err != nil {
		return errors.Wrap(err, "session: send preamble")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	netBytes := make(chan []byte, 16)
	keyBytes := make(chan []byte, 16)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return readLoop(gctx, l.conn, netBytes) })

	// The keyboard reader is not waited on: a Read on a raw-mode stdin
	// cannot be interrupted portably, and exiting must not hang on the
	// user pressing one more key. It dies with the process.
	go readLoop(gctx, l.keyboard, keyBytes) //nolint:errcheck

	ticker := time.NewTicker(FlashPeriod)
	defer ticker.Stop()

	runErr := l.dispatch(ctx, netBytes, keyBytes, ticker.C)
	cancel()

	if sendErr := l.sendPostamble(); sendErr != nil {
		l.logger.Warn("session: postamble send failed", zap.Error(sendErr))
	}

	// Unblock the network reader so g.Wait cannot stall on a socket with
	// no traffic.
	l.conn.SetReadDeadline(time.Now()) //nolint:errcheck

	if waitErr := g.Wait(); waitErr != nil && runErr == nil && waitErr != context.Canceled {
		runErr = waitErr
	}

	if l.downloadFile != nil {
		l.downloadFile.Close()
		l.downloadFile = nil
	}
	return runErr
}

// dispatch is the single-threaded consumer of all three input channels.
func (l *Loop) dispatch(ctx context.Context, netBytes, keyBytes <-chan []byte, ticks <-chan time.Time) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case data, ok := <-netBytes:
			if !ok {
				return errors.New("session: peer closed")
			}
			l.onNetwork(data)
		case data, ok := <-keyBytes:
			if !ok {
				return nil
			}
			if err := l.onKeyboard(data); err != nil {
				return err
			}
		case <-ticks:
			l.presenter.ToggleFlash()
		}
	}
}

// onNetwork feeds data to the presentation decoder unconditionally, and
// to the Telesoftware decoder once a download has been armed from the
// keyboard. The Telesoftware layer never filters what the presentation
// decoder sees.
func (l *Loop) onNetwork(data []byte) {
	l.presenter.Decode(data)

	if !l.downloading {
		if l.armed && l.tele.DecodeHeader(data) {
			l.startDownload()
		}
		l.handleTeleCompletion()
		return
	}

	l.tele.Decode(data, l.downloadFile)
	l.handleTeleCompletion()
}

func (l *Loop) startDownload() {
	if l.downloadTo == nil {
		return
	}
	f, err := l.downloadTo(l.tele.Filename())
	if err != nil {
		l.logger.Error("session: open download sink failed",
			zap.String("filename", l.tele.Filename()), zap.Error(err))
		return
	}
	l.downloadFile = f
	l.downloading = true
	l.logger.Info("session: download started",
		zap.String("filename", l.tele.Filename()),
		zap.String("frame_letter", string(l.tele.FrameLetter)))
}

// handleTeleCompletion drives the Telesoftware completion handshake: a
// single '_' ack for each end-of-frame or end-of-file.
func (l *Loop) handleTeleCompletion() {
	if l.tele.EndOfFrame || l.tele.EndOfFile {
		if l.tele.InvalidChecksum || l.tele.ParityError {
			// Withholding the ack asks the remote to resend the frame.
			l.logger.Warn("session: frame error, ack withheld",
				zap.Bool("invalid_checksum", l.tele.InvalidChecksum),
				zap.Bool("parity_error", l.tele.ParityError))
		} else if _, err := l.conn.Write([]byte{'_'}); err != nil {
			l.logger.Warn("session: ack write failed", zap.Error(err))
		}
	}

	if l.tele.EndOfFile {
		if l.downloadFile != nil {
			l.downloadFile.Close()
			l.downloadFile = nil
		}
		l.downloading = false
		l.armed = false
		l.tele.Reset()
	}
}

// onKeyboard dispatches local actions and forwards the rest to the
// remote, remapping '#' and newline to '_'.
func (l *Loop) onKeyboard(data []byte) error {
	out := make([]byte, 0, len(data))

	for _, b := range data {
		if action, ok := keyboardActions[b]; ok {
			l.runAction(action)
			continue
		}

		if b == '#' || b == '\n' {
			b = '_'
		}
		out = append(out, b)
	}

	if len(out) == 0 {
		return nil
	}

	if _, err := l.conn.Write(out); err != nil {
		return errors.Wrap(err, "session: write to peer")
	}
	return nil
}

func (l *Loop) runAction(action keyboardAction) {
	switch action {
	case actionToggleReveal:
		l.presenter.ToggleReveal()
	case actionInitiateDownload:
		l.armed = true
		l.tele.Reset()
	case actionSaveFrame:
		l.saveFrame()
	case actionToggleBold:
		l.bold = !l.bold
		l.display.SetBoldOverride(l.bold)
	}
}

func (l *Loop) saveFrame() {
	f, err := os.CreateTemp("", "vidtex-frame-*.bin")
	if err != nil {
		l.logger.Warn("session: save frame failed", zap.Error(err))
		return
	}
	defer f.Close()
	if _, err := l.presenter.SaveFrame(f); err != nil {
		l.logger.Warn("session: save frame write failed", zap.Error(err))
		return
	}
	l.logger.Info("session: frame saved", zap.String("path", f.Name()))
}

func (l *Loop) sendPreamble() error {
	bytes := []byte{PreambleLead}
	if l.profile != nil {
		bytes = append(bytes, l.profile.Preamble...)
	}
	_, err := l.conn.Write(bytes)
	return err
}

func (l *Loop) sendPostamble() error {
	_, err := l.conn.Write(l.postamble)
	return err
}

// readLoop copies r into out in arbitrary-sized chunks until ctx is
// cancelled or r returns an error, then closes out.
func readLoop(ctx context.Context, r io.Reader, out chan<- []byte) error {
	defer close(out)

	reader := bufio.NewReader(r)
	buf := make([]byte, 4096)

	for {
		n, err := reader.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			select {
			case out <- chunk:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err != nil {
			if err == io.EOF || ctx.Err() != nil {
				return nil
			}
			return errors.Wrap(err, "session: read")
		}
	}
}
