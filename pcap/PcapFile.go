// Copyright (c) 2020-2024, The OTNS Authors.
// Copyright (c) 2024, The LoRaEnergySim Authors.
// All rights reserved.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions are met:
// 1. Redistributions of source code must retain the above copyright
//    notice, this list of conditions and the following disclaimer.
// 2. Redistributions in binary form must reproduce the above copyright
//    notice, this list of conditions and the following disclaimer in the
//    documentation and/or other materials provided with the distribution.
// 3. Neither the name of the copyright holder nor the
//    names of its contributors may be used to endorse or promote products
//    derived from this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
// AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
// IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE
// ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE
// LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR
// CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF
// SUBSTITUTE GOODS OR SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS
// INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN
// CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE)
// ARISING IN ANY WAY OUT OF THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE
// POSSIBILITY OF SUCH DAMAGE.

// Package pcap writes the uplinks of the air interface to PCAP files, either as bare LoRaWAN PHY
// payloads or with a LoRaTap radio header that Wireshark decodes.
package pcap

import (
	"encoding/binary"
	"os"

	"github.com/pkg/errors"
)

type FrameType int

const (
	FrameTypeOff FrameType = iota
	FrameTypeLoraWan
	FrameTypeLoraTap
	FrameTypeUnknown
)

const (
	FrameTypeOffStr     string = "off"
	FrameTypeLoraWanStr string = "lorawan"
	FrameTypeLoraTapStr string = "loratap"
)

const (
	dltUser0            = 147
	pcapMagicNumber     = 0xA1B2C3D4
	pcapVersionMajor    = 2
	pcapVersionMinor    = 4
	pcapFileHeaderSize  = 24
	pcapFrameHeaderSize = 16
	pcapSnapLen         = 256
)

// File represents a PCAP file
type File interface {
	AppendFrame(frame Frame) error
	Sync() error
	Close() error
}

// Frame is a single uplink added to a PCAP file. Timestamp is the virtual start time in us.
type Frame struct {
	Timestamp uint64
	Data      []byte
	FreqHz    int
	BwKHz     int
	SF        int
	Rssi      float64
	Snr       float64
}

type loraWanFile struct {
	fd *os.File
}

// NewFile creates a new PCAP file with all frames using specified frameType
func NewFile(filename string, frameType FrameType) (File, error) {
	switch frameType {
	case FrameTypeLoraWan:
		return newLoraWanFile(filename)
	case FrameTypeLoraTap:
		return newLoraTapFile(filename)
	default:
		return nil, errors.Errorf("invalid PCAP frame type: %d", frameType)
	}
}

func ParseFrameTypeStr(tp string) FrameType {
	switch tp {
	case FrameTypeOffStr, "":
		return FrameTypeOff
	case FrameTypeLoraWanStr:
		return FrameTypeLoraWan
	case FrameTypeLoraTapStr:
		return FrameTypeLoraTap
	default:
		return FrameTypeUnknown
	}
}

func newLoraWanFile(filename string) (File, error) {
	fd, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}

	pf := &loraWanFile{
		fd: fd,
	}

	if err = writeFileHeader(fd, dltUser0); err != nil {
		_ = pf.Close()
		return nil, err
	}

	return pf, nil
}

func (pf *loraWanFile) AppendFrame(frame Frame) error {
	header := frameHeader(frame.Timestamp, len(frame.Data))
	if _, err := pf.fd.Write(header[:]); err != nil {
		return err
	}
	_, err := pf.fd.Write(frame.Data)
	return err
}

func (pf *loraWanFile) Sync() error {
	return pf.fd.Sync()
}

func (pf *loraWanFile) Close() error {
	return pf.fd.Close()
}

func frameHeader(ts uint64, plen int) [pcapFrameHeaderSize]byte {
	var header [pcapFrameHeaderSize]byte
	sec := uint32(ts / 1000000)
	usec := uint32(ts % 1000000)
	binary.LittleEndian.PutUint32(header[:4], sec)
	binary.LittleEndian.PutUint32(header[4:8], usec)
	binary.LittleEndian.PutUint32(header[8:12], uint32(plen))
	binary.LittleEndian.PutUint32(header[12:16], uint32(plen))
	return header
}

func writeFileHeader(fd *os.File, linkType uint32) error {
	var header [pcapFileHeaderSize]byte
	binary.LittleEndian.PutUint32(header[:4], pcapMagicNumber)
	binary.LittleEndian.PutUint16(header[4:6], pcapVersionMajor)
	binary.LittleEndian.PutUint16(header[6:8], pcapVersionMinor)
	binary.LittleEndian.PutUint32(header[8:12], 0)
	binary.LittleEndian.PutUint32(header[12:16], 0)
	binary.LittleEndian.PutUint32(header[16:20], pcapSnapLen)
	binary.LittleEndian.PutUint32(header[20:24], linkType)
	if _, err := fd.Write(header[:]); err != nil {
		return err
	}
	return fd.Sync()
}
