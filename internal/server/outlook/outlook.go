// Package outlook reads Outlook .msg files: the header fields of the
// message and the files attached to it.
//
// A .msg file is a compound file. Every MAPI property is a stream named
// __substg1.0_IIIITTTT (property id, property type); attachments are
// storages named __attach_version1.0_#NNNNNNNN holding the same kind of
// streams. Fixed-size properties such as dates live in the
// __properties_version1.0 stream.
package outlook

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/richardlehane/mscfb"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// ErrNotMessage is returned for input that is not a compound file.
var ErrNotMessage = errors.New("not an outlook message")

// Property ids.
const (
	propSubject        = "0037"
	propSenderName     = "0C1A"
	propSenderEmail    = "0C1F"
	propBody           = "1000"
	propDisplayName    = "3001"
	propAttachData     = "3701"
	propAttachFilename = "3704"
	propAttachLongName = "3707"
	propAttachMime     = "370E"

	propSubmitTime   = 0x0039
	propDeliveryTime = 0x0E06
)

// Property types.
const (
	typeString8 = "001E"
	typeUnicode = "001F"
	typeBinary  = "0102"
	typeSystime = 0x0040
)

const (
	streamPrefix = "__substg1.0_"
	attachPrefix = "__attach_version1.0_#"
	propsStream  = "__properties_version1.0"

	// top-level property stream layout
	propsHeader   = 32
	propEntrySize = 16
)

type Attachment struct {
	Name     string
	MimeType string
	Data     []byte
}

type Message struct {
	Subject     string
	Sender      string
	Date        time.Time
	Body        string
	Attachments []Attachment
}

// entry is one stream of the compound file. path lists the storages
// above it.
type entry struct {
	path []string
	name string
	data []byte
}

// Parse reads a whole message from r.
func Parse(r io.ReaderAt) (*Message, error) {
	doc, err := mscfb.New(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotMessage, err)
	}

	var entries []entry
	for {
		f, err := doc.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read compound file: %w", err)
		}
		if f.Size <= 0 {
			continue
		}
		data := make([]byte, f.Size)
		if _, err := io.ReadFull(f, data); err != nil {
			return nil, fmt.Errorf("read %s: %w", f.Name, err)
		}
		entries = append(entries, entry{path: f.Path, name: f.Name, data: data})
	}

	return build(entries), nil
}

type props struct {
	streams map[string]entry
	fixed   []byte
}

func (p props) text(id string) string {
	if e, ok := p.streams[id+typeUnicode]; ok {
		return decodeUnicode(e.data)
	}
	if e, ok := p.streams[id+typeString8]; ok {
		return decode8(e.data)
	}
	return ""
}

func (p props) raw(id string) ([]byte, bool) {
	e, ok := p.streams[id+typeBinary]
	return e.data, ok
}

func build(entries []entry) *Message {
	top := props{streams: map[string]entry{}}
	attachments := map[string]*props{}

	for _, e := range entries {
		var target *props
		switch {
		case len(e.path) == 0:
			target = &top
		case len(e.path) == 1 && strings.HasPrefix(e.path[0], attachPrefix):
			target = attachments[e.path[0]]
			if target == nil {
				target = &props{streams: map[string]entry{}}
				attachments[e.path[0]] = target
			}
		default:
			continue
		}

		if e.name == propsStream {
			target.fixed = e.data
			continue
		}
		if key, ok := strings.CutPrefix(e.name, streamPrefix); ok && len(key) == 8 {
			target.streams[strings.ToUpper(key)] = e
		}
	}

	msg := &Message{
		Subject: top.text(propSubject),
		Body:    strings.TrimSpace(top.text(propBody)),
		Sender:  sender(top.text(propSenderName), top.text(propSenderEmail)),
		Date:    messageDate(top.fixed),
	}

	names := make([]string, 0, len(attachments))
	for name := range attachments {
		names = append(names, name)
	}
	sort.Strings(names)

	for i, name := range names {
		a := attachments[name]
		data, ok := a.raw(propAttachData)
		if !ok {
			// embedded messages and OLE objects carry no plain data
			continue
		}
		msg.Attachments = append(msg.Attachments, Attachment{
			Name:     attachmentName(*a, i),
			MimeType: a.text(propAttachMime),
			Data:     data,
		})
	}
	return msg
}

func attachmentName(p props, i int) string {
	for _, id := range []string{propAttachLongName, propAttachFilename, propDisplayName} {
		if s := strings.TrimSpace(p.text(id)); s != "" {
			return s
		}
	}
	return fmt.Sprintf("attachment_%d", i+1)
}

func sender(name, email string) string {
	switch {
	case name == "":
		return email
	case email == "" || email == name:
		return name
	}
	return fmt.Sprintf("%s <%s>", name, email)
}

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

func decodeUnicode(b []byte) string {
	out, err := utf16le.NewDecoder().Bytes(b)
	if err != nil {
		return ""
	}
	return strings.TrimRight(string(out), "\x00")
}

// decode8 reads 8-bit strings as Windows-1256, the Arabic ANSI code page.
func decode8(b []byte) string {
	b = bytes.TrimRight(b, "\x00")
	out, err := charmap.Windows1256.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(out)
}

// messageDate returns the submit time of the message, or its delivery
// time when it was never submitted.
func messageDate(fixed []byte) time.Time {
	if len(fixed) < propsHeader {
		return time.Time{}
	}
	var submit, delivery time.Time
	for off := propsHeader; off+propEntrySize <= len(fixed); off += propEntrySize {
		tag := binary.LittleEndian.Uint32(fixed[off:])
		if tag&0xFFFF != typeSystime {
			continue
		}
		t := filetime(binary.LittleEndian.Uint64(fixed[off+8:]))
		switch tag >> 16 {
		case propSubmitTime:
			submit = t
		case propDeliveryTime:
			delivery = t
		}
	}
	if !submit.IsZero() {
		return submit
	}
	return delivery
}

// epochDelta is the number of 100ns intervals between 1601-01-01 and
// 1970-01-01.
const epochDelta = 116444736000000000

func filetime(ft uint64) time.Time {
	if ft < epochDelta {
		return time.Time{}
	}
	d := ft - epochDelta
	return time.Unix(int64(d/10_000_000), int64(d%10_000_000)*100).UTC()
}
