package storage

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"zombieland-server/internal/domain"

	"github.com/klauspost/compress/zstd"
)

const (
	MagicHeader string = `ZLRP` // 4 байта
	Version1    uint32 = 1

	maxAddrLen     = 255
	maxDatagramLen = 65535
)

// ReplayFileHeader - несжатый заголовок файла. binary.Write пишет его целиком,
// так как тут нет слайсов и строк, только массивы и числа.
type ReplayFileHeader struct {
	Magic       [4]byte // 4 байта
	Version     uint32  // 4 байта
	Protocol    uint32  // 4 байта, версия сетевого протокола записанных датаграмм
	Seed        int64   // 8 байт
	Timestamp   int64   // 8 байт
	ActionCount uint32  // 4 байта
}

// ActionHeader - заголовок каждой записи в сжатом теле.
type ActionHeader struct {
	Tick        uint32 // 4
	AddrLen     uint8  // 1
	DatagramLen uint16 // 2
}

type ReplayService struct {
	SaveDir  string
	Protocol uint32
}

func NewReplayService(dir string, protocol uint32) *ReplayService {
	return &ReplayService{SaveDir: dir, Protocol: protocol}
}

// FileName - имя журнала для сеанса.
func FileName(session *domain.ReplaySession) string {
	return fmt.Sprintf("replay_%d_%d.zlrp", session.Seed, session.Timestamp)
}

// Save пишет журнал в SaveDir и возвращает путь к файлу.
func (s *ReplayService) Save(session *domain.ReplaySession) (string, error) {
	if err := os.MkdirAll(s.SaveDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(s.SaveDir, FileName(session))

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := writeBinary(f, session, s.Protocol); err != nil {
		return "", err
	}
	return path, f.Sync()
}

func writeBinary(w io.Writer, s *domain.ReplaySession, protocol uint32) error {
	header := ReplayFileHeader{
		Version:     Version1,
		Protocol:    protocol,
		Seed:        s.Seed,
		Timestamp:   s.Timestamp,
		ActionCount: uint32(len(s.Actions)),
	}
	copy(header.Magic[:], MagicHeader)

	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(enc)

	for _, act := range s.Actions {
		if len(act.Addr) > maxAddrLen {
			enc.Close()
			return fmt.Errorf("addr too long: %d", len(act.Addr))
		}
		if len(act.Datagram) > maxDatagramLen {
			enc.Close()
			return fmt.Errorf("datagram too long: %d", len(act.Datagram))
		}

		ah := ActionHeader{
			Tick:        act.Tick,
			AddrLen:     uint8(len(act.Addr)),
			DatagramLen: uint16(len(act.Datagram)),
		}
		if err := binary.Write(bw, binary.LittleEndian, &ah); err != nil {
			enc.Close()
			return err
		}
		if _, err := bw.WriteString(act.Addr); err != nil {
			enc.Close()
			return err
		}
		if _, err := bw.Write(act.Datagram); err != nil {
			enc.Close()
			return err
		}
	}

	if err := bw.Flush(); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}
