package cfbzip

// Kind identifies a worker message.
type Kind string

const (
	KindBuffer Kind = "buffer"
	KindSize   Kind = "size"
	KindFile   Kind = "file"
	KindDone   Kind = "done"
)

// InMessage is sent to a Worker. The worker owns Payload once sent.
type InMessage struct {
	Kind    Kind
	Payload []byte
}

// OutMessage is emitted by a session. Size and file messages may repeat;
// done is sent once, last, and hands Payload to the receiver.
type OutMessage struct {
	Kind           Kind
	TotalBytes     int64
	FilesCompleted int
	Payload        []byte
}

// PostFunc delivers outbound messages. It must not block for long; the
// session calls it synchronously.
type PostFunc func(OutMessage)
