// Copyright (c) 2020-2023, The OTNS Authors.
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

package pcap

import (
	"encoding/binary"
	"math"
	"os"
)

// LoRaTap version 0 header, https://github.com/eriknl/LoRaTap
const (
	dltLoraTap             = 270
	pcapTapFrameHeaderSize = 15
	loraTapRssiOffset      = 139
	loraWanPublicSyncWord  = 0x34
)

type tapFile struct {
	fd *os.File
}

func newLoraTapFile(filename string) (File, error) {
	fd, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}

	pf := &tapFile{
		fd: fd,
	}

	if err = writeFileHeader(fd, dltLoraTap); err != nil {
		_ = pf.Close()
		return nil, err
	}

	return pf, nil
}

// rssiByte encodes a dBm value as LoRaTap does: value - 139 = dBm, clipped to a byte.
func rssiByte(dbm float64) byte {
	v := math.Round(dbm + loraTapRssiOffset)
	if v < 0 {
		return 0
	} else if v > 255 {
		return 255
	}
	return byte(v)
}

// snrByte encodes an SNR in quarter dB, as a signed byte.
func snrByte(db float64) byte {
	v := math.Round(db * 4)
	if v < math.MinInt8 {
		v = math.MinInt8
	} else if v > math.MaxInt8 {
		v = math.MaxInt8
	}
	return byte(int8(v))
}

func (pf *tapFile) AppendFrame(frame Frame) error {
	var header [pcapFrameHeaderSize + pcapTapFrameHeaderSize]byte
	fh := frameHeader(frame.Timestamp, len(frame.Data)+pcapTapFrameHeaderSize)
	copy(header[:], fh[:])

	n := pcapFrameHeaderSize
	header[n] = 0 // version
	header[n+1] = 0
	binary.BigEndian.PutUint16(header[n+2:n+4], pcapTapFrameHeaderSize)
	binary.BigEndian.PutUint32(header[n+4:n+8], uint32(frame.FreqHz))
	header[n+8] = byte(frame.BwKHz / 125)
	header[n+9] = byte(frame.SF)
	rssi := rssiByte(frame.Rssi)
	header[n+10] = rssi // packet rssi
	header[n+11] = rssi // max rssi
	header[n+12] = rssi // current rssi
	header[n+13] = snrByte(frame.Snr)
	header[n+14] = loraWanPublicSyncWord

	if _, err := pf.fd.Write(header[:]); err != nil {
		return err
	}
	_, err := pf.fd.Write(frame.Data)
	return err
}

func (pf *tapFile) Sync() error {
	return pf.fd.Sync()
}

func (pf *tapFile) Close() error {
	return pf.fd.Close()
}
