package http

import (
	"encoding/json"

	"github.com/vovakirdan/pairlink-server/internal/core"
	"github.com/vovakirdan/pairlink-server/internal/proto"
)

func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.Error, error) {
	switch inbound.Type {
	case proto.InboundTypeJoinRoom:
		var join proto.JoinRoomData
		if err := json.Unmarshal(inbound.Data, &join); err != nil {
			return nil, nil, err
		}
		// Name validation happens in the core so the reply arrives as a
		// join ack, not a protocol error.
		return &core.Command{
			Kind: core.CommandJoinRoom,
			Room: join.Room,
		}, nil, nil
	case proto.InboundTypeLeaveRoom:
		return &core.Command{Kind: core.CommandLeaveRoom}, nil, nil
	case proto.InboundTypeGameState:
		var state proto.GameStateData
		if err := json.Unmarshal(inbound.Data, &state); err != nil {
			return nil, nil, err
		}
		return &core.Command{
			Kind:  core.CommandGameState,
			State: state.State,
		}, nil, nil
	case proto.InboundTypeRequestState:
		return &core.Command{Kind: core.CommandRequestState}, nil, nil
	case proto.InboundTypeSendState:
		var send proto.SendStateData
		if err := json.Unmarshal(inbound.Data, &send); err != nil {
			return nil, nil, err
		}
		return &core.Command{
			Kind:   core.CommandSendState,
			Target: send.Target,
			State:  send.State,
		}, nil, nil
	default:
		return nil, &proto.Error{Code: "invalid_message", Msg: "unknown message type"}, nil
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventWelcome:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameWelcome,
			Data:  proto.WelcomeData{ConnectionID: event.ConnectionID},
		}
	case core.EventJoinResult:
		ack := proto.JoinRoomAck{Success: event.Success}
		if event.Error != nil {
			ack.Error = event.Error.Message
		} else {
			ack.IsRoomOwner = event.IsRoomOwner
			ack.PlayerCount = event.PlayerCount
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeAck,
			Event: proto.InboundTypeJoinRoom,
			Data:  ack,
		}
	case core.EventLeaveResult:
		return proto.Outbound{
			Type:  proto.OutboundTypeAck,
			Event: proto.InboundTypeLeaveRoom,
			Data:  proto.LeaveRoomAck{Success: event.Success},
		}
	case core.EventGameState:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameGameState,
			Data:  proto.GameStateData{State: event.State},
		}
	case core.EventStateRequested:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameStateRequested,
			Data:  proto.StateRequestedData{RequesterID: event.ConnectionID},
		}
	case core.EventPlayerJoined:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNamePlayerJoined,
			Data:  proto.PlayerJoinedData{PlayerCount: event.PlayerCount},
		}
	case core.EventPlayerLeft:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNamePlayerLeft,
		}
	case core.EventRoomTimeout:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameRoomTimeout,
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}
