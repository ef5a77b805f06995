package llm

import "context"

// Fake is a scripted client for tests. Each Generate call consumes the
// next queued reply in order.
type Fake struct {
	Replies []FakeReply
	Prompts []string
	model   string
}

type FakeReply struct {
	Text string
	Err  error
}

func NewFake(replies ...FakeReply) *Fake {
	return &Fake{Replies: replies, model: "fake-model"}
}

func (f *Fake) SetModel(name string) { f.model = name }
func (f *Fake) Model() string        { return f.model }

func (f *Fake) Generate(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	f.Prompts = append(f.Prompts, prompt)
	if len(f.Replies) == 0 {
		return "", &MalformedResponseError{Provider: "fake", Body: "no scripted reply"}
	}
	next := f.Replies[0]
	f.Replies = f.Replies[1:]
	if next.Err != nil {
		return "", next.Err
	}
	return next.Text, nil
}
