package ipc

import (
	"fmt"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"

	"tonearm/internal/config"
)

// Client is a typed JSON-RPC client for the daemon socket.
type Client struct {
	rpc *rpc.Client
}

// Dial connects to the daemon's Unix socket.
func Dial(socketPath string) (*Client, error) {
	conn, err := net.DialTimeout("unix", socketPath, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("connect to tonearmd at %s: %w", socketPath, err)
	}
	return &Client{rpc: jsonrpc.NewClient(conn)}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.rpc.Close()
}

// Gong casts a skip-vote ballot.
func (c *Client) Gong(user string) (GongResponse, error) {
	var resp GongResponse
	err := c.rpc.Call("Tonearm.Gong", &GongRequest{User: user}, &resp)
	return resp, err
}

// GongCheck fetches the read-only gong status.
func (c *Client) GongCheck() (GongCheckResponse, error) {
	var resp GongCheckResponse
	err := c.rpc.Call("Tonearm.GongCheck", &GongCheckRequest{}, &resp)
	return resp, err
}

// Vote casts a promotion ballot for a queue slot.
func (c *Client) Vote(user string, slot int) (SlotVoteResponse, error) {
	var resp SlotVoteResponse
	err := c.rpc.Call("Tonearm.Vote", &SlotVoteRequest{User: user, Slot: slot}, &resp)
	return resp, err
}

// VoteCheck lists open promotion votes.
func (c *Client) VoteCheck() (SlotChecksResponse, error) {
	var resp SlotChecksResponse
	err := c.rpc.Call("Tonearm.VoteCheck", &SlotChecksRequest{}, &resp)
	return resp, err
}

// ImmuneVote casts an immunity ballot for a queue slot.
func (c *Client) ImmuneVote(user string, slot int) (SlotVoteResponse, error) {
	var resp SlotVoteResponse
	err := c.rpc.Call("Tonearm.ImmuneVote", &SlotVoteRequest{User: user, Slot: slot}, &resp)
	return resp, err
}

// ImmuneVoteCheck lists open immunity votes.
func (c *Client) ImmuneVoteCheck() (SlotChecksResponse, error) {
	var resp SlotChecksResponse
	err := c.rpc.Call("Tonearm.ImmuneVoteCheck", &SlotChecksRequest{}, &resp)
	return resp, err
}

// Flush casts a flush-queue ballot.
func (c *Client) Flush(user string) (FlushResponse, error) {
	var resp FlushResponse
	err := c.rpc.Call("Tonearm.Flush", &FlushRequest{User: user}, &resp)
	return resp, err
}

// ImmuneList fetches the immune track names.
func (c *Client) ImmuneList() (ImmuneListResponse, error) {
	var resp ImmuneListResponse
	err := c.rpc.Call("Tonearm.ImmuneList", &ImmuneListRequest{}, &resp)
	return resp, err
}

// Ban marks a track immune without a vote.
func (c *Client) Ban(user, title, artist string) (BanResponse, error) {
	var resp BanResponse
	err := c.rpc.Call("Tonearm.Ban", &BanRequest{User: user, Title: title, Artist: artist}, &resp)
	return resp, err
}

// LimitsGet fetches the live voting limits.
func (c *Client) LimitsGet() (LimitsResponse, error) {
	var resp LimitsResponse
	err := c.rpc.Call("Tonearm.LimitsGet", &LimitsGetRequest{}, &resp)
	return resp, err
}

// LimitsSet applies a partial limits update.
func (c *Client) LimitsSet(patch config.LimitPatch) (LimitsResponse, error) {
	var resp LimitsResponse
	err := c.rpc.Call("Tonearm.LimitsSet", &LimitsSetRequest{Patch: patch}, &resp)
	return resp, err
}

// Status fetches daemon runtime information.
func (c *Client) Status() (StatusResponse, error) {
	var resp StatusResponse
	err := c.rpc.Call("Tonearm.Status", &StatusRequest{}, &resp)
	return resp, err
}
