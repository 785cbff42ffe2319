package storage

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"zombieland-server/internal/domain"

	"github.com/klauspost/compress/zstd"
)

var (
	ErrInvalidMagic       = errors.New("invalid magic")
	ErrUnsupportedVersion = errors.New("unsupported version")
)

// Header читает только заголовок журнала.
func Header(path string) (ReplayFileHeader, error) {
	var header ReplayFileHeader
	f, err := os.Open(path)
	if err != nil {
		return header, err
	}
	defer f.Close()
	return readHeader(f)
}

func (s *ReplayService) Load(path string) (*domain.ReplaySession, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	session, _, err := readBinary(f)
	return session, err
}

func readHeader(r io.Reader) (ReplayFileHeader, error) {
	var header ReplayFileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return header, fmt.Errorf("failed to read header: %w", err)
	}
	if string(header.Magic[:]) != MagicHeader {
		return header, ErrInvalidMagic
	}
	if header.Version != Version1 {
		return header, fmt.Errorf("%w: %d (expected %d)", ErrUnsupportedVersion, header.Version, Version1)
	}
	return header, nil
}

func readBinary(r io.Reader) (*domain.ReplaySession, ReplayFileHeader, error) {
	header, err := readHeader(r)
	if err != nil {
		return nil, header, err
	}

	session := &domain.ReplaySession{
		Seed:      header.Seed,
		Timestamp: header.Timestamp,
		Actions:   make([]domain.ReplayAction, header.ActionCount),
	}

	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, header, err
	}
	defer dec.Close()
	br := bufio.NewReader(dec)

	for i := range session.Actions {
		var ah ActionHeader
		if err := binary.Read(br, binary.LittleEndian, &ah); err != nil {
			return nil, header, fmt.Errorf("action %d: %w", i, err)
		}

		addr := make([]byte, ah.AddrLen)
		if _, err := io.ReadFull(br, addr); err != nil {
			return nil, header, fmt.Errorf("action %d addr: %w", i, err)
		}
		act := domain.ReplayAction{Tick: ah.Tick, Addr: string(addr)}

		if ah.DatagramLen > 0 {
			act.Datagram = make([]byte, ah.DatagramLen)
			if _, err := io.ReadFull(br, act.Datagram); err != nil {
				return nil, header, fmt.Errorf("action %d datagram: %w", i, err)
			}
		}
		session.Actions[i] = act
	}

	return session, header, nil
}
