package location

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/adrianmo/go-nmea"
	"github.com/tarm/serial"
)

const (
	knotsToKmh = 1.852

	// maxSentences bounds how many NMEA lines are read looking for a fix.
	maxSentences = 64
)

// ErrNoFix is returned when the receiver produced no usable GGA or RMC sentence.
var ErrNoFix = errors.New("no valid GPS data found")

// GPSProvider reads NMEA sentences from a GPS receiver connected via serial port.
type GPSProvider struct {
	port     string
	baudRate int

	mu     sync.Mutex
	stream io.ReadCloser
}

// NewGPSProvider creates a GPSProvider. The port is opened on the first reading.
func NewGPSProvider(port string, baudRate int) *GPSProvider {
	return &GPSProvider{
		port:     port,
		baudRate: baudRate,
	}
}

// GetLocation reads sentences until it has both a GGA and an RMC fix, or gives
// up after maxSentences lines and returns whatever it found.
func (g *GPSProvider) GetLocation(ctx context.Context) (Location, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.stream == nil {
		s, err := serial.OpenPort(&serial.Config{Name: g.port, Baud: g.baudRate, ReadTimeout: time.Second})
		if err != nil {
			return Location{}, fmt.Errorf("failed to open GPS port %s: %w", g.port, err)
		}
		g.stream = s
	}

	loc, err := readFix(ctx, g.stream, maxSentences)
	if err != nil && !errors.Is(err, ErrNoFix) {
		// reopen the port on the next reading
		g.stream.Close()
		g.stream = nil
	}
	return loc, err
}

// Close releases the serial port.
func (g *GPSProvider) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.stream == nil {
		return nil
	}
	err := g.stream.Close()
	g.stream = nil
	return err
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

// readFix merges GGA (position, HDOP) and RMC (position, speed, course) sentences.
// Unparsable lines are skipped; receivers emit partial sentences at start-up.
func readFix(ctx context.Context, r io.Reader, maxLines int) (Location, error) {
	var (
		loc     Location
		haveGGA bool
		haveRMC bool
	)

	scanner := bufio.NewScanner(ctxReader{ctx: ctx, r: r})
	for lines := 0; lines < maxLines && scanner.Scan(); lines++ {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "$") {
			continue
		}
		sentence, err := nmea.Parse(line)
		if err != nil {
			continue
		}

		switch s := sentence.(type) {
		case nmea.GGA:
			if s.FixQuality == nmea.Invalid {
				continue
			}
			loc.Latitude, loc.Longitude = s.Latitude, s.Longitude
			loc.Accuracy = s.HDOP
			haveGGA = true
		case nmea.RMC:
			if s.Validity != nmea.ValidRMC {
				continue
			}
			if !haveGGA {
				loc.Latitude, loc.Longitude = s.Latitude, s.Longitude
			}
			speed := s.Speed * knotsToKmh
			heading := s.Course
			loc.Speed, loc.Heading = &speed, &heading
			haveRMC = true
		}

		if haveGGA && haveRMC {
			return loc, nil
		}
	}

	if err := scanner.Err(); err != nil {
		return Location{}, err
	}
	if haveGGA || haveRMC {
		return loc, nil
	}
	return Location{}, ErrNoFix
}
