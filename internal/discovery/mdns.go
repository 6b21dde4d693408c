// ABOUTME: mDNS discovery of recorder modules on the local network
// ABOUTME: Browses for the instrument service type and reports addresses
package discovery

import (
	"time"

	"github.com/hashicorp/mdns"
	"github.com/rs/zerolog"
)

// serviceType is what the recorder firmware advertises.
const serviceType = "_lanxi._tcp"

// Instrument describes a discovered recorder module.
type Instrument struct {
	Name string
	Host string
	Port int
}

// Browser finds recorder modules via mDNS.
type Browser struct {
	log zerolog.Logger
}

// NewBrowser creates a discovery browser.
func NewBrowser(log zerolog.Logger) *Browser {
	return &Browser{log: log}
}

// Browse queries the local network and collects every instrument that
// answers within the timeout.
func (b *Browser) Browse(timeout time.Duration) ([]Instrument, error) {
	entries := make(chan *mdns.ServiceEntry, 16)
	done := make(chan []Instrument, 1)

	go func() {
		var found []Instrument
		for entry := range entries {
			if entry.AddrV4 == nil {
				continue
			}
			inst := Instrument{
				Name: entry.Name,
				Host: entry.AddrV4.String(),
				Port: entry.Port,
			}
			b.log.Debug().Str("name", inst.Name).Str("host", inst.Host).Msg("discovered instrument")
			found = append(found, inst)
		}
		done <- found
	}()

	params := &mdns.QueryParam{
		Service: serviceType,
		Domain:  "local",
		Timeout: timeout,
		Entries: entries,
	}
	err := mdns.Query(params)
	close(entries)
	found := <-done
	if err != nil {
		return nil, err
	}
	return found, nil
}

// First returns the first instrument found, or false when none answers
// within the timeout.
func (b *Browser) First(timeout time.Duration) (Instrument, bool, error) {
	found, err := b.Browse(timeout)
	if err != nil {
		return Instrument{}, false, err
	}
	if len(found) == 0 {
		return Instrument{}, false, nil
	}
	return found[0], true, nil
}
