package outlook

import (
	"bytes"
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"
)

func utf16(t *testing.T, s string) []byte {
	t.Helper()
	b, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder().Bytes([]byte(s))
	require.NoError(t, err)
	return append(b, 0, 0)
}

func fixedProps(id uint32, ft uint64) []byte {
	b := make([]byte, propsHeader+propEntrySize)
	binary.LittleEndian.PutUint32(b[propsHeader:], id<<16|typeSystime)
	binary.LittleEndian.PutUint64(b[propsHeader+8:], ft)
	return b
}

func TestBuild(t *testing.T) {
	sent := time.Date(2025, 7, 22, 9, 30, 0, 0, time.UTC)
	ft := uint64(sent.UnixNano()/100) + epochDelta

	att0 := []string{"__attach_version1.0_#00000000"}
	att1 := []string{"__attach_version1.0_#00000001"}
	att2 := []string{"__attach_version1.0_#00000002"}

	msg := build([]entry{
		{name: "__substg1.0_0037001F", data: utf16(t, "طلب تصريح")},
		{name: "__substg1.0_0C1A001F", data: utf16(t, "Omar")},
		{name: "__substg1.0_0C1F001F", data: utf16(t, "omar@example.com")},
		{name: "__substg1.0_1000001F", data: utf16(t, "  body text \r\n")},
		{name: propsStream, data: fixedProps(propSubmitTime, ft)},

		{path: att1, name: "__substg1.0_37010102", data: []byte("second")},
		{path: att1, name: "__substg1.0_3704001E", data: []byte("B.TXT\x00")},

		{path: att0, name: "__substg1.0_37010102", data: []byte("%PDF")},
		{path: att0, name: "__substg1.0_3707001F", data: utf16(t, "7612 dd 22072025_Subject.pdf")},
		{path: att0, name: "__substg1.0_370E001F", data: utf16(t, "application/pdf")},

		// an embedded message: no data stream
		{path: att2, name: "__substg1.0_3001001F", data: utf16(t, "fwd")},
		// nested storages are ignored
		{path: append(att2, "__substg1.0_3701000D"), name: "__substg1.0_0037001F", data: utf16(t, "inner")},
	})

	assert.Equal(t, "طلب تصريح", msg.Subject)
	assert.Equal(t, "Omar <omar@example.com>", msg.Sender)
	assert.Equal(t, "body text", msg.Body)
	assert.Equal(t, sent, msg.Date)

	require.Len(t, msg.Attachments, 2)
	assert.Equal(t, Attachment{Name: "7612 dd 22072025_Subject.pdf", MimeType: "application/pdf", Data: []byte("%PDF")}, msg.Attachments[0])
	assert.Equal(t, Attachment{Name: "B.TXT", Data: []byte("second")}, msg.Attachments[1])
}

func TestBuild_FallbackNamesAndDates(t *testing.T) {
	delivered := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	ft := uint64(delivered.UnixNano()/100) + epochDelta

	msg := build([]entry{
		{name: propsStream, data: fixedProps(propDeliveryTime, ft)},
		{path: []string{"__attach_version1.0_#00000000"}, name: "__substg1.0_37010102", data: []byte("x")},
	})
	assert.Equal(t, delivered, msg.Date)
	assert.Equal(t, "attachment_1", msg.Attachments[0].Name)
	assert.Empty(t, msg.Sender)
}

func TestDecode8_Windows1256(t *testing.T) {
	// "سلام" in Windows-1256
	assert.Equal(t, "سلام", decode8([]byte{0xD3, 0xE1, 0xC7, 0xE3, 0x00}))
}

func TestSender(t *testing.T) {
	assert.Equal(t, "a@x", sender("", "a@x"))
	assert.Equal(t, "Omar", sender("Omar", ""))
	assert.Equal(t, "a@x", sender("a@x", "a@x"))
}

func TestParse_NotACompoundFile(t *testing.T) {
	_, err := Parse(bytes.NewReader([]byte("definitely not an OLE file, just some text padding it out")))
	assert.ErrorIs(t, err, ErrNotMessage)
}
