// Copyright (c) 2020, The OTNS Authors.
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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPcapFile(t *testing.T) {
	pcapFilename := filepath.Join(t.TempDir(), "test.pcap")
	pcap, err := NewFile(pcapFilename, FrameTypeLoraWan)
	if err != nil {
		t.Fatal(err)
	}

	defer func() {
		_ = pcap.Close()
	}()

	err = pcap.Sync()
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, pcapFileHeaderSize, getFileSize(t, pcapFilename))

	for i := 0; i < 10; i++ {
		frame := Frame{
			Timestamp: uint64(i) * 1000,
			Data:      []byte{0x40, 0x01, 0x00, 0x00, 0x00},
			FreqHz:    868100000,
			BwKHz:     125,
			SF:        7,
			Rssi:      -60.0,
		}
		err = pcap.AppendFrame(frame)
		if err != nil {
			t.Fatal(err)
		}

		err = pcap.Sync()
		if err != nil {
			t.Fatal(err)
		}
		assert.True(t, pcapFileHeaderSize+(pcapFrameHeaderSize+5)*(i+1) == getFileSize(t, pcapFilename))
	}
}

func TestPcapTapFile(t *testing.T) {
	pcapFilename := filepath.Join(t.TempDir(), "test_tap.pcap")
	pcap, err := NewFile(pcapFilename, FrameTypeLoraTap)
	if err != nil {
		t.Fatal(err)
	}

	defer func() {
		_ = pcap.Close()
	}()

	err = pcap.Sync()
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, pcapFileHeaderSize, getFileSize(t, pcapFilename))

	for i := 0; i < 10; i++ {
		frame := Frame{
			Timestamp: uint64(i) * 1000,
			Data:      []byte{0x80, 0x02, 0x00, 0x00, 0x00},
			FreqHz:    868300000,
			BwKHz:     125,
			SF:        7 + i%6,
			Rssi:      -100.0 + float64(i),
			Snr:       -5.25,
		}
		err = pcap.AppendFrame(frame)
		if err != nil {
			t.Fatal(err)
		}

		err = pcap.Sync()
		if err != nil {
			t.Fatal(err)
		}
		assert.Equal(t, pcapFileHeaderSize+(pcapFrameHeaderSize+pcapTapFrameHeaderSize+5)*(i+1), getFileSize(t, pcapFilename))
	}

	data, err := os.ReadFile(pcapFilename)
	require.Nil(t, err)
	assert.Equal(t, uint32(dltLoraTap), binary.LittleEndian.Uint32(data[20:24]))

	tap := data[pcapFileHeaderSize+pcapFrameHeaderSize:]
	assert.Equal(t, uint16(pcapTapFrameHeaderSize), binary.BigEndian.Uint16(tap[2:4]))
	assert.Equal(t, uint32(868300000), binary.BigEndian.Uint32(tap[4:8]))
	assert.Equal(t, byte(1), tap[8])
	assert.Equal(t, byte(7), tap[9])
	assert.Equal(t, byte(39), tap[10])
	assert.Equal(t, int8(-21), int8(tap[13]))
	assert.Equal(t, byte(0x34), tap[14])
}

func TestParseFrameTypeStr(t *testing.T) {
	assert.Equal(t, FrameTypeOff, ParseFrameTypeStr(""))
	assert.Equal(t, FrameTypeOff, ParseFrameTypeStr("off"))
	assert.Equal(t, FrameTypeLoraWan, ParseFrameTypeStr("lorawan"))
	assert.Equal(t, FrameTypeLoraTap, ParseFrameTypeStr("loratap"))
	assert.Equal(t, FrameTypeUnknown, ParseFrameTypeStr("pcapng"))

	_, err := NewFile(filepath.Join(t.TempDir(), "x.pcap"), FrameTypeOff)
	assert.NotNil(t, err)
}

func TestUplinkPhyPayload(t *testing.T) {
	b := Uplink{DevAddr: 42, FrameCounter: 0x1234, Confirmed: true, Adr: true, PayloadSize: 10}.PhyPayload()
	require.Equal(t, UplinkOverhead+10, len(b))
	assert.Equal(t, byte(mhdrConfirmedDataUp), b[0])
	assert.Equal(t, uint32(42), binary.LittleEndian.Uint32(b[1:5]))
	assert.Equal(t, byte(fctrlAdr), b[5])
	assert.Equal(t, uint16(0x1234), binary.LittleEndian.Uint16(b[6:8]))
	assert.Equal(t, byte(appFPort), b[8])

	b = Uplink{DevAddr: 1, PayloadSize: 5}.PhyPayload()
	assert.Equal(t, byte(mhdrUnconfirmedDataUp), b[0])
	assert.Equal(t, byte(0), b[5])
}

func getFileSize(t *testing.T, fp string) int {
	info, err := os.Stat(fp)
	if err != nil {
		t.Fatal(err)
	}

	return int(info.Size())
}
