package middleware

import (
	"bytes"
	"context"
	"encoding/gob"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// idemTTL is how long a response stays paired to its key.
const idemTTL = 24 * time.Hour

var (
	_ IdempotencyCacher = (*IdemResMap)(nil)
	_ IdempotencyCacher = IdemResRedis{}
)

// An IdempotencyCacher can store responses paired to idempotency keys.
type IdempotencyCacher interface {
	Get(ctx context.Context, key string) (IdemRes, bool)
	Set(ctx context.Context, key string, idemRes IdemRes)
}

// An IdemRes is data from an HTTP response
// that can be reused when another request
// matches the same idempotency key.
type IdemRes struct {
	Body     *bytes.Buffer
	Location string
	Req      []byte
	Status   int
	URI      string
}

// An idemResGob is an intermediate representation of
// an IdemRes for the purposes of gob encoding/decoding.
type idemResGob struct {
	B []byte
	L string
	R []byte
	S int
	U string
}

// NewIdemRes constructs a new IdemRes.
func NewIdemRes(uri string, hashedBody []byte) IdemRes {
	return IdemRes{Body: bytes.NewBuffer(nil), URI: uri, Req: hashedBody}
}

// GobDecode unmarshals the gob-encoded []byte into fields of the *IdemRes.
//
// GobDecode implements gob.GobDecoder.
func (i *IdemRes) GobDecode(b []byte) error {
	g := new(idemResGob)
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(g); err != nil {
		return err
	}

	i.Body = bytes.NewBuffer(g.B)
	i.Location, i.Req, i.Status, i.URI = g.L, g.R, g.S, g.U
	return nil
}

// GobEncode marshals the fields of the IdemRes into a gob-encoded []byte.
//
// GobEncode implements gob.GobEncoder.
func (i IdemRes) GobEncode() ([]byte, error) {
	var body []byte
	if i.Body != nil {
		body = i.Body.Bytes()
	}

	buf := bytes.NewBuffer(nil)
	if err := gob.NewEncoder(buf).Encode(idemResGob{body, i.Location, i.Req, i.Status, i.URI}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// An IdemResMap stores idempotency key, IdemRes value pairs in memory.
//
// Server restarts reset it and instances do not share it;
// use IdemResRedis when running more than one.
type IdemResMap struct {
	mu  sync.Mutex
	val map[string]idemResMapVal
}

type idemResMapVal struct {
	IdemRes
	at time.Time
}

// NewIdemResMap constructs an IdemResMap.
func NewIdemResMap() *IdemResMap { return &IdemResMap{val: make(map[string]idemResMapVal)} }

// Get retrieves the result of the request matching the idempotency key.
func (i *IdemResMap) Get(ctx context.Context, key string) (IdemRes, bool) {
	if key == "" || ctx.Err() != nil {
		return IdemRes{}, false
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	v, ok := i.val[key]
	if !ok || time.Since(v.at) > idemTTL {
		return IdemRes{}, false
	}

	return v.IdemRes, true
}

// Set overwrites the value paired to key.
//
// For each call to Set, expired keys are evicted.
func (i *IdemResMap) Set(ctx context.Context, key string, idemRes IdemRes) {
	if ctx.Err() != nil {
		return
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	for k, v := range i.val {
		if time.Since(v.at) > idemTTL {
			delete(i.val, k)
		}
	}

	at := time.Now()
	if prev, ok := i.val[key]; ok {
		at = prev.at
	}

	i.val[key] = idemResMapVal{IdemRes: idemRes, at: at}
}

// An IdemResRedis connects to a Redis backend
// for the purposes of caching idempotent responses.
type IdemResRedis struct {
	client *redis.Client
	prefix string
}

// NewRedisCache constructs an IdemResRedis sharing client.
func NewRedisCache(client *redis.Client) IdemResRedis {
	return IdemResRedis{client: client, prefix: "aula:idem:"}
}

// Get retrieves the IdemRes paired to key from the connected Redis backend.
func (i IdemResRedis) Get(ctx context.Context, key string) (IdemRes, bool) {
	b, err := i.client.Get(ctx, i.prefix+key).Bytes()
	if err != nil {
		return IdemRes{}, false
	}

	ir := new(IdemRes)
	if err := ir.GobDecode(b); err != nil {
		return IdemRes{}, false
	}

	return *ir, true
}

// Set saves the IdemRes by pairing it to the key in the Redis backend.
func (i IdemResRedis) Set(ctx context.Context, key string, idemRes IdemRes) {
	b, err := idemRes.GobEncode()
	if err != nil {
		return
	}

	i.client.Set(ctx, i.prefix+key, b, idemTTL)
}
