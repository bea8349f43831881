package wamp

import (
	"context"

	"github.com/gammazero/nexus/v3/client"
	"github.com/gammazero/nexus/v3/wamp"

	"github.com/mpapenbr/go-racehud/log"
)

const procGetVersion = "racehud.public.get_version"

type PublicClient struct {
	client *client.Client
}

func NewPublicClient(ctx context.Context, url, realm string) (*PublicClient, error) {
	c, err := Connect(ctx, url, realm, log.GetFromContext(ctx))
	if err != nil {
		return nil, err
	}
	return &PublicClient{client: c}, nil
}

func (pc *PublicClient) Close() error {
	return pc.client.Close()
}

func (pc *PublicClient) Client() *client.Client {
	return pc.client
}

// GetVersion returns the version reported by the pit bridge
func (pc *PublicClient) GetVersion(ctx context.Context) (string, error) {
	result, err := pc.client.Call(ctx, procGetVersion, nil, wamp.List{}, nil, nil)
	if err != nil {
		return "", err
	}
	return versionFromResult(result)
}

func versionFromResult(result *wamp.Result) (string, error) {
	if result == nil || len(result.Arguments) == 0 {
		return "", ErrNoResults
	}
	ret, ok := wamp.AsDict(result.Arguments[0])
	if !ok {
		return "", ErrNoResults
	}
	version, ok := wamp.AsString(ret["ownVersion"])
	if !ok {
		return "", ErrNoResults
	}
	return version, nil
}
