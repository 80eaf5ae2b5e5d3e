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

package kpi

// Node table columns. Energy columns are in mJ, WaitTimeDC in ms.
const (
	UniquePackets        = "UniquePackets"
	CollidedPackets      = "CollidedPackets"
	RetransmittedPackets = "RetransmittedPackets"
	NoDLReceived         = "NoDLReceived"
	TotalPackets         = "TotalPackets"
	TotalBytes           = "TotalBytes"
	WaitTimeDC           = "WaitTimeDC"
	AdrChanges           = "AdrChanges"
	SleepEnergy          = "SleepEnergy"
	ProcEnergy           = "ProcEnergy"
	TxEnergy             = "TxEnergy"
	RxEnergy             = "RxEnergy"
	TxRxEnergy           = "TxRxEnergy"
	TotalEnergy          = "TotalEnergy"

	UniqueBytes   = "UniqueBytes"
	CollidedBytes = "CollidedBytes"
)

// Gateway table columns.
const (
	PacketsReceived       = "PacketsReceived"
	UniquePacketsReceived = "UniquePacketsReceived"
	UniqueBytesReceived   = "UniqueBytesReceived"
	WeakPackets           = "WeakPackets"
	DLPackets             = "DLPackets"
	AdrCommands           = "AdrCommands"
)

// Air interface table columns.
const (
	TransmittedPackets = "TransmittedPackets"
	AirCollidedPackets = "CollidedPackets"
	CapturedPackets    = "CapturedPackets"
	AirtimeMs          = "AirtimeMs"
)

const (
	NodeTableName    = "Node"
	GatewayTableName = "Gateway"
	AirTableName     = "AirInterface"
)

var (
	NodeColumns = []string{UniquePackets, CollidedPackets, RetransmittedPackets, NoDLReceived, TotalPackets,
		TotalBytes, WaitTimeDC, AdrChanges, SleepEnergy, ProcEnergy, TxEnergy, RxEnergy, TxRxEnergy, TotalEnergy}

	GatewayColumns = []string{PacketsReceived, UniquePacketsReceived, UniqueBytesReceived, WeakPackets,
		DLPackets, AdrCommands}

	AirColumns = []string{TransmittedPackets, AirCollidedPackets, CapturedPackets, AirtimeMs}

	// NodeDerivedColumns are computed per row as packet count times payload size.
	NodeDerivedColumns = []DerivedColumn{
		{Name: UniqueBytes, From: UniquePackets},
		{Name: CollidedBytes, From: CollidedPackets},
	}

	// ChartColumns are the node columns shown in the comparison chart.
	ChartColumns = []string{CollidedPackets, RetransmittedPackets, NoDLReceived}
)
