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

import "encoding/binary"

const (
	mhdrUnconfirmedDataUp = 0x40
	mhdrConfirmedDataUp   = 0x80
	fctrlAdr              = 0x80
	appFPort              = 1

	// UplinkOverhead is MHDR, DevAddr, FCtrl, FCnt, FPort and MIC.
	UplinkOverhead = 13
)

// Uplink describes the LoRaWAN data uplink a simulated frame stands for.
type Uplink struct {
	DevAddr      uint32
	FrameCounter int
	Confirmed    bool
	Adr          bool
	PayloadSize  int
}

// PhyPayload returns the PHY payload of u. The application payload and MIC are zero bytes.
func (u Uplink) PhyPayload() []byte {
	b := make([]byte, UplinkOverhead+u.PayloadSize)
	b[0] = mhdrUnconfirmedDataUp
	if u.Confirmed {
		b[0] = mhdrConfirmedDataUp
	}
	binary.LittleEndian.PutUint32(b[1:5], u.DevAddr)
	if u.Adr {
		b[5] = fctrlAdr
	}
	binary.LittleEndian.PutUint16(b[6:8], uint16(u.FrameCounter))
	b[8] = appFPort
	return b
}
