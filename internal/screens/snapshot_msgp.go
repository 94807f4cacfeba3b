package screens

import (
	"github.com/tinylib/msgp/msgp"
)

// Snapshot is encoded as a MessagePack map keyed by short field names

func (s *Snapshot) MarshalMsg(b []byte) ([]byte, error) {
	o := msgp.Require(b, s.Msgsize())
	o = msgp.AppendMapHeader(o, 6)
	o = msgp.AppendString(o, "u")
	o = msgp.AppendString(o, s.Username)
	o = msgp.AppendString(o, "img")
	o = msgp.AppendString(o, s.PostImageURL)
	o = msgp.AppendString(o, "av")
	o = msgp.AppendString(o, s.AvatarURL)
	o = msgp.AppendString(o, "d")
	o = msgp.AppendString(o, s.Description)
	o = msgp.AppendString(o, "ts")
	o = msgp.AppendString(o, s.TimeStamp)
	o = msgp.AppendString(o, "lk")
	o = msgp.AppendInt(o, s.LikeCount)
	return o, nil
}

func (s *Snapshot) UnmarshalMsg(bts []byte) ([]byte, error) {
	n, bts, err := msgp.ReadMapHeaderBytes(bts)
	if err != nil {
		return bts, msgp.WrapError(err)
	}

	for ; n > 0; n-- {
		var field []byte
		field, bts, err = msgp.ReadMapKeyZC(bts)
		if err != nil {
			return bts, msgp.WrapError(err)
		}

		switch msgp.UnsafeString(field) {
		case "u":
			s.Username, bts, err = msgp.ReadStringBytes(bts)
		case "img":
			s.PostImageURL, bts, err = msgp.ReadStringBytes(bts)
		case "av":
			s.AvatarURL, bts, err = msgp.ReadStringBytes(bts)
		case "d":
			s.Description, bts, err = msgp.ReadStringBytes(bts)
		case "ts":
			s.TimeStamp, bts, err = msgp.ReadStringBytes(bts)
		case "lk":
			s.LikeCount, bts, err = msgp.ReadIntBytes(bts)
		default:
			bts, err = msgp.Skip(bts)
		}
		if err != nil {
			return bts, msgp.WrapError(err, string(field))
		}
	}
	return bts, nil
}

func (s *Snapshot) Msgsize() int {
	return msgp.MapHeaderSize +
		6*msgp.StringPrefixSize + len("u") + len("img") + len("av") + len("d") + len("ts") + len("lk") +
		msgp.StringPrefixSize + len(s.Username) +
		msgp.StringPrefixSize + len(s.PostImageURL) +
		msgp.StringPrefixSize + len(s.AvatarURL) +
		msgp.StringPrefixSize + len(s.Description) +
		msgp.StringPrefixSize + len(s.TimeStamp) +
		msgp.IntSize
}
