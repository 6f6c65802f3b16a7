// SPDX-License-Identifier: AGPL-3.0-or-later
// pulsewired - a wire-compatible PulseAudio native protocol server
// Copyright (C) 2026 pulsewired contributors

package server

import (
	"context"
	"io"
	"log/slog"
	"strconv"

	"go.opentelemetry.io/otel"

	"github.com/nativesound/pulsewired/internal/catalog"
	"github.com/nativesound/pulsewired/internal/command"
	"github.com/nativesound/pulsewired/internal/frame"
	"github.com/nativesound/pulsewired/internal/tagstruct"
	"github.com/nativesound/pulsewired/internal/transport"
)

// handler drives one accepted connection's read-frame -> handle ->
// write-reply loop, per spec.md §4.7 and the single-task-per-connection
// scheduling model of §5.
type handler struct {
	server *Server
	conn   transport.Conn
	client *catalog.Client

	buf        []byte
	pendingFDs []int
}

func (h *handler) logger() *slog.Logger {
	return h.server.logger()
}

// run drives the connection until it closes or a wire-level error
// forces disconnection (spec.md §7: wire errors are never reported to
// the peer, only logged, and the socket is closed).
func (h *handler) run(ctx context.Context) {
	readBuf := make([]byte, 16*1024)
	for {
		n, fds, err := h.conn.ReadFrame(readBuf)
		if n > 0 {
			h.buf = append(h.buf, readBuf[:n]...)
			h.server.Metrics.RecordFrameBytes(n)
		}
		h.pendingFDs = append(h.pendingFDs, fds...)
		if err != nil {
			if err != io.EOF {
				h.logger().Error("read failed", "clientID", h.client.ID, "error", err)
			}
			return
		}

		for {
			pkt, consumed, decErr := frame.Decode(h.buf, h.server.maxFrameLength())
			if decErr == frame.ErrNeedMore {
				break
			}
			if decErr != nil {
				h.logger().Error("frame decode failed", "clientID", h.client.ID, "error", decErr)
				return
			}
			h.buf = h.buf[consumed:]

			if pkt.Kind() != frame.KindControl {
				// memblock / shm-release / shm-revoke frames are
				// recognized but never processed in this core
				// (spec.md §4.7).
				continue
			}
			if !h.handleControl(ctx, pkt.Payload) {
				return
			}
		}
	}
}

// handleControl parses and dispatches one control payload, writing a
// reply or error. It returns false when the connection must be torn
// down (a wire-level parse failure).
func (h *handler) handleControl(ctx context.Context, payload []byte) bool {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "handler.handleControl")
	defer span.End()

	env, err := command.DecodeEnvelope(payload)
	if err != nil {
		h.logger().Error("malformed control payload", "clientID", h.client.ID, "error", err)
		return false
	}
	h.server.Metrics.RecordCommand(strconv.FormatUint(uint64(env.Opcode), 10))

	if env.Opcode == command.OpReply || env.Opcode == command.OpError {
		h.sendError(env.Tag, command.ErrProtocol)
		return true
	}

	if env.Opcode != command.OpAuth && !h.client.Authenticated {
		h.sendError(env.Tag, command.ErrAccess)
		return true
	}

	if !env.Opcode.IsKnown() {
		h.sendError(env.Tag, command.ErrNotImplemented)
		return true
	}

	switch env.Opcode {
	case command.OpAuth:
		return h.handleAuth(ctx, env)
	case command.OpSetClientName:
		return h.handleSetClientName(ctx, env)
	case command.OpCreatePlaybackStream:
		return h.handleCreatePlaybackStream(ctx, env)
	case command.OpGetSinkInfoList:
		return h.handleGetSinkInfoList(ctx, env)
	case command.OpGetClientInfoList:
		return h.handleGetClientInfoList(ctx, env)
	case command.OpGetModuleInfoList:
		return h.handleGetModuleInfoList(ctx, env)
	case command.OpRegisterMemfdShmid:
		return h.handleRegisterMemfdShmid(ctx, env)
	default:
		h.sendError(env.Tag, command.ErrNotImplemented)
		return true
	}
}

func (h *handler) handleAuth(_ context.Context, env command.Envelope) bool {
	auth, err := command.ParseAuth(env.Reader)
	if err != nil {
		h.logger().Error("malformed AUTH payload", "clientID", h.client.ID, "error", err)
		return false
	}
	if err := env.Reader.AtEndStrict(); err != nil {
		h.logger().Error("trailing bytes after AUTH", "clientID", h.client.ID, "error", err)
		return false
	}

	if auth.Version < 13 {
		h.sendError(env.Tag, command.ErrVersion)
		return true
	}
	// The negotiated version is updated before the reply is sent, even
	// on a cookie mismatch, per spec.md §4.7.
	h.client.ProtocolVersion = auth.Version

	if !h.server.Cookie.Equal(auth.Cookie) {
		h.sendError(env.Tag, command.ErrAccess)
		return true
	}

	h.client.Authenticated = true
	h.sendReply(env.Tag, func(w *tagstruct.Writer) {
		command.AuthReply{ServerVersion: h.server.ProtocolVersion}.Write(w)
	})
	return true
}

func (h *handler) handleSetClientName(_ context.Context, env command.Envelope) bool {
	scn, err := command.ParseSetClientName(env.Reader, h.client.ProtocolVersion)
	if err != nil {
		h.logger().Error("malformed SET_CLIENT_NAME payload", "clientID", h.client.ID, "error", err)
		return false
	}
	if err := env.Reader.AtEndStrict(); err != nil {
		h.logger().Error("trailing bytes after SET_CLIENT_NAME", "clientID", h.client.ID, "error", err)
		return false
	}

	h.client.Properties.Merge(scn.Properties)
	h.sendReply(env.Tag, func(w *tagstruct.Writer) {
		command.SetClientNameReply{ClientID: uint32(h.client.ID)}.Write(w)
	})
	return true
}

func (h *handler) handleCreatePlaybackStream(_ context.Context, env command.Envelope) bool {
	params, err := command.ParseCreatePlaybackStream(env.Reader, h.client.ProtocolVersion)
	if err != nil {
		if semErr, ok := err.(*command.SemanticError); ok {
			h.sendError(env.Tag, semErr.Code)
			return true
		}
		h.logger().Error("malformed CREATE_PLAYBACK_STREAM payload", "clientID", h.client.ID, "error", err)
		return false
	}
	if err := env.Reader.AtEndStrict(); err != nil {
		h.logger().Error("trailing bytes after CREATE_PLAYBACK_STREAM", "clientID", h.client.ID, "error", err)
		return false
	}
	_ = params // parse-only: stream creation is out of scope (spec.md §4.7)
	h.sendError(env.Tag, command.ErrNotImplemented)
	return true
}

func (h *handler) handleGetSinkInfoList(_ context.Context, env command.Envelope) bool {
	if err := env.Reader.AtEndStrict(); err != nil {
		h.logger().Error("trailing bytes after GET_SINK_INFO_LIST", "clientID", h.client.ID, "error", err)
		return false
	}
	var reply command.GetSinkInfoListReply
	h.server.Sinks.Each(func(s *catalog.Sink) {
		reply.Sinks = append(reply.Sinks, s.ToSinkInfo(h.client.ProtocolVersion))
	})
	h.sendReply(env.Tag, func(w *tagstruct.Writer) {
		reply.Write(w, h.client.ProtocolVersion)
	})
	return true
}

func (h *handler) handleGetClientInfoList(_ context.Context, env command.Envelope) bool {
	if err := env.Reader.AtEndStrict(); err != nil {
		h.logger().Error("trailing bytes after GET_CLIENT_INFO_LIST", "clientID", h.client.ID, "error", err)
		return false
	}
	var reply command.GetClientInfoListReply
	h.server.Clients.Each(func(c *catalog.Client) {
		reply.Clients = append(reply.Clients, command.ClientInfo{
			Index:        uint32(c.ID),
			Driver:       "protocol-native.c",
			OwningModule: command.InvalidIndex,
			Properties:   c.Properties,
			ApplicationName: func() string {
				if name, ok := c.Properties.GetString("application.name"); ok {
					return name
				}
				return ""
			}(),
		})
	})
	h.sendReply(env.Tag, func(w *tagstruct.Writer) {
		reply.Write(w, h.client.ProtocolVersion)
	})
	return true
}

func (h *handler) handleGetModuleInfoList(_ context.Context, env command.Envelope) bool {
	if err := env.Reader.AtEndStrict(); err != nil {
		h.logger().Error("trailing bytes after GET_MODULE_INFO_LIST", "clientID", h.client.ID, "error", err)
		return false
	}
	reply := command.GetModuleInfoListReply{Modules: []command.ModuleInfo{command.DefaultModule()}}
	h.sendReply(env.Tag, func(w *tagstruct.Writer) {
		reply.Write(w, h.client.ProtocolVersion)
	})
	return true
}

func (h *handler) handleRegisterMemfdShmid(_ context.Context, env command.Envelope) bool {
	shmid, err := command.ParseRegisterMemfdShmid(env.Reader)
	if err != nil {
		h.logger().Error("malformed REGISTER_MEMFD_SHMID payload", "clientID", h.client.ID, "error", err)
		return false
	}
	if err := env.Reader.AtEndStrict(); err != nil {
		h.logger().Error("trailing bytes after REGISTER_MEMFD_SHMID", "clientID", h.client.ID, "error", err)
		return false
	}
	// The accompanying descriptor rides in ancillary data; this core
	// surfaces it but does not interpret it (spec.md §4.4/§9).
	var fd int = -1
	if len(h.pendingFDs) > 0 {
		fd = h.pendingFDs[0]
		h.pendingFDs = h.pendingFDs[1:]
	}
	h.logger().Debug("REGISTER_MEMFD_SHMID", "clientID", h.client.ID, "shmid", shmid.ShmID, "fd", fd)
	h.sendReply(env.Tag, nil)
	return true
}

func (h *handler) sendReply(tag command.Tag, writeBody func(*tagstruct.Writer)) {
	payload := command.EncodeReply(tag, writeBody)
	h.write(payload)
}

func (h *handler) sendError(tag command.Tag, code command.ErrorCode) {
	h.server.Metrics.RecordError(strconv.FormatUint(uint64(code), 10))
	payload := command.EncodeError(tag, code)
	h.write(payload)
}

func (h *handler) write(payload []byte) {
	if _, err := h.conn.WriteFrame(frame.EncodeControl(payload), nil); err != nil {
		h.logger().Error("write failed", "clientID", h.client.ID, "error", err)
	}
}
