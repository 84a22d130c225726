// This file is part of gossipd, a gossip-overlay daemon in Golang.
// Copyright (C) 2026 The gossipd authors.
//
// gossipd is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.
//
// gossipd is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.
//
// SPDX-License-Identifier: AGPL3.0-or-later

// Package queue defines the typed events and commands that flow on the
// in-memory FIFO queues connecting receivers, senders, and controllers.
// It follows a small tagged-struct idiom (as opposed to an interface
// hierarchy), since every event/command here carries the same two
// optional fields (an identifier and a message).
package queue

import "github.com/bfix/gossipd/message"

// EventKind discriminates the events a receiver emits towards its
// controller.
type EventKind int

const (
	// NewConnection fires once, right after the receiver starts.
	NewConnection EventKind = iota
	// ReceivedMessage carries one decoded frame from the wire.
	ReceivedMessage
	// ConnectionLost fires on decode failure, socket error, or clean
	// remote close; terminal for the receiver that emits it.
	ConnectionLost
)

// Event is a controller's queue input: a connection lifecycle
// transition or a decoded message, tagged with the identifier of the
// connection it came from.
type Event struct {
	Kind       EventKind
	Identifier string
	Msg        message.Message // set only when Kind == ReceivedMessage
}

// CommandKind discriminates the commands a controller emits towards its
// endpoint's sender.
type CommandKind int

const (
	// SendCommand asks the sender to write a framed message to an
	// existing connection.
	SendCommand CommandKind = iota
	// EstablishCommand asks the sender to dial out a new connection.
	EstablishCommand
)

// Command is a sender's queue input.
type Command struct {
	Kind       CommandKind
	Identifier string
	Msg        message.Message // set only when Kind == SendCommand
}

// Send builds a SendCommand.
func Send(identifier string, msg message.Message) Command {
	return Command{Kind: SendCommand, Identifier: identifier, Msg: msg}
}

// Establish builds an EstablishCommand.
func Establish(identifier string) Command {
	return Command{Kind: EstablishCommand, Identifier: identifier}
}
