package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"keyscope-core/internal/core/types"

	"github.com/redis/go-redis/v9"
)

// ━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━
// 单键操作命令
// ━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━

// cmdGet 按类型展示键的值
func (b *Browser) cmdGet(args []string) {
	if len(args) != 1 {
		b.output.Error("usage: get <key>")
		return
	}
	key := args[0]

	t, err := b.client.TypeOf(b.ctx, key)
	if err != nil {
		b.output.Error("failed to resolve type: %v", err)
		return
	}
	if !t.Exists() {
		// 已声明但尚未写入的虚拟键单独提示
		if vt, ok := b.session.VirtualType(key); ok {
			b.output.Info("%s is a declared %s key with no data yet", key, vt)
			return
		}
		b.output.Error("no such key: %s", key)
		return
	}

	switch t {
	case types.KeyTypeString:
		value, err := b.client.GetString(b.ctx, key)
		if err != nil {
			b.output.Error("get failed: %v", err)
			return
		}
		b.output.Plain("%q", value)

	case types.KeyTypeList:
		items, err := b.client.ListRange(b.ctx, key, 0, -1)
		if err != nil {
			b.output.Error("lrange failed: %v", err)
			return
		}
		for i, item := range items {
			b.output.Plain("%d) %q", i+1, item)
		}

	case types.KeyTypeHash:
		fields, err := b.client.HashGetAll(b.ctx, key)
		if err != nil {
			b.output.Error("hgetall failed: %v", err)
			return
		}
		table := NewTable("FIELD", "VALUE")
		for field, value := range fields {
			table.AddRow(field, value)
		}
		table.Render()

	case types.KeyTypeSet:
		members, err := b.client.SetMembers(b.ctx, key)
		if err != nil {
			b.output.Error("smembers failed: %v", err)
			return
		}
		for i, member := range members {
			b.output.Plain("%d) %q", i+1, member)
		}

	case types.KeyTypeZSet:
		members, err := b.client.ZSetRange(b.ctx, key, 0, -1)
		if err != nil {
			b.output.Error("zrange failed: %v", err)
			return
		}
		table := NewTable("SCORE", "MEMBER")
		for _, m := range members {
			table.AddRow(strconv.FormatFloat(m.Score, 'f', -1, 64), m.Member)
		}
		table.Render()

	default:
		b.output.Error("unsupported key type: %s", t)
	}
}

// cmdSet 写字符串键
// 键若是虚拟声明，第一次成功写入后会向服务端求证并收回声明
func (b *Browser) cmdSet(args []string) {
	if len(args) < 2 {
		b.output.Error("usage: set <key> <value>")
		return
	}
	key := args[0]
	value := strings.Join(args[1:], " ")

	if err := b.client.SetString(b.ctx, key, value, 0); err != nil {
		b.output.Error("set failed: %v", err)
		return
	}
	b.afterWrite(key)
	b.output.Success("%s set", key)
}

// cmdDetail 显示键的元数据
func (b *Browser) cmdDetail(args []string) {
	if len(args) != 1 {
		b.output.Error("usage: detail <key>")
		return
	}
	key := args[0]

	detail, err := b.details.Get(b.ctx, key)
	if err != nil {
		b.output.Error("failed to fetch details: %v", err)
		return
	}
	if !detail.Type.Exists() {
		if vt, ok := b.session.VirtualType(key); ok {
			b.output.Info("%s is a declared %s key with no data yet", key, vt)
			return
		}
		b.output.Error("no such key: %s", key)
		return
	}
	renderDetail(b.output, detail)
}

// cmdTTL 显示剩余生存时间
func (b *Browser) cmdTTL(args []string) {
	if len(args) != 1 {
		b.output.Error("usage: ttl <key>")
		return
	}

	ttl, err := b.client.TTL(b.ctx, args[0])
	if err != nil {
		b.output.Error("ttl failed: %v", err)
		return
	}
	b.output.Plain("%s", formatTTL(ttl))
}

// cmdExpire 设置过期时间
func (b *Browser) cmdExpire(args []string) {
	if len(args) != 2 {
		b.output.Error("usage: expire <key> <seconds>")
		return
	}
	secs, err := strconv.Atoi(args[1])
	if err != nil || secs <= 0 {
		b.output.Error("invalid seconds: %s", args[1])
		return
	}

	if err := b.client.SetTTL(b.ctx, args[0], time.Duration(secs)*time.Second); err != nil {
		b.output.Error("expire failed: %v", err)
		return
	}
	b.details.Invalidate(args[0])
	b.output.Success("%s expires in %ds", args[0], secs)
}

// cmdPersist 移除过期时间
func (b *Browser) cmdPersist(args []string) {
	if len(args) != 1 {
		b.output.Error("usage: persist <key>")
		return
	}

	if err := b.client.SetTTL(b.ctx, args[0], -1); err != nil {
		b.output.Error("persist failed: %v", err)
		return
	}
	b.details.Invalidate(args[0])
	b.output.Success("%s persisted", args[0])
}

// cmdDelete 删除键（需要确认）
func (b *Browser) cmdDelete(args []string) {
	if len(args) != 1 {
		b.output.Error("usage: del <key>")
		return
	}
	key := args[0]

	if !b.promptConfirm(fmt.Sprintf("Delete key %q?", key)) {
		b.output.Info("cancelled")
		return
	}

	deleted, err := b.client.Delete(b.ctx, key)
	if err != nil {
		b.output.Error("delete failed: %v", err)
		return
	}

	// 虚拟声明也要一并移除
	b.session.OnKeyDeleted(key)
	b.details.Invalidate(key)

	if deleted {
		b.output.Success("%s deleted", key)
	} else {
		b.output.Info("%s did not exist on the server", key)
	}
}

// cmdRename 重命名键
func (b *Browser) cmdRename(args []string) {
	if len(args) != 2 {
		b.output.Error("usage: rename <old> <new>")
		return
	}
	oldName, newName := args[0], args[1]

	if err := b.client.Rename(b.ctx, oldName, newName); err != nil {
		b.output.Error("rename failed: %v", err)
		return
	}

	b.session.OnKeyDeleted(oldName)
	b.details.Invalidate(oldName)
	b.afterWrite(newName)
	b.output.Success("%s renamed to %s", oldName, newName)
}

// cmdNew 声明一个虚拟键
// 空集合在 Redis 里不存在，声明让它在第一个元素写入前就出现在树里
func (b *Browser) cmdNew(args []string) {
	if len(args) != 2 {
		b.output.Error("usage: new <string|list|hash|set|zset> <key>")
		return
	}

	t := types.ParseKeyType(args[0])
	key := args[1]

	if err := b.session.DeclareVirtualKey(key, t); err != nil {
		b.output.Error("declare failed: %v", err)
		return
	}
	b.output.Success("%s declared as %s, write the first element to create it", key, t)
	renderTree(b.output, b.session.CurrentTree())
}

// writeCommands 会改动键空间的命令，执行后刷新本地状态
var writeCommands = map[string]bool{
	"set": true, "setex": true, "append": true, "incr": true, "incrby": true,
	"decr": true, "decrby": true, "lpush": true, "rpush": true, "lset": true,
	"lrem": true, "hset": true, "hdel": true, "sadd": true, "srem": true,
	"zadd": true, "zrem": true, "del": true, "unlink": true, "expire": true,
	"persist": true, "rename": true, "flushdb": true, "flushall": true,
}

// cmdRaw 原样透传命令
func (b *Browser) cmdRaw(args []string) {
	if len(args) == 0 {
		b.output.Error("usage: raw <command> [args...]")
		return
	}

	cmdArgs := make([]interface{}, len(args))
	for i, a := range args {
		cmdArgs[i] = a
	}

	reply, err := b.client.Do(b.ctx, cmdArgs...)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			b.output.Plain("(nil)")
			return
		}
		b.output.Error("%v", err)
		return
	}
	renderReply(reply, "")

	// 原始控制台可能改动任意键（del、flushdb 等没有固定的键参数），
	// 任何写命令之后都整页重扫，让缓存追上服务端
	if writeCommands[strings.ToLower(args[0])] {
		b.details.Purge()
		if _, err := b.session.Refresh(b.ctx); err != nil {
			b.output.Warning("refresh failed: %v", err)
		}
	}
}

// afterWrite 写入成功后的本地状态同步
func (b *Browser) afterWrite(key string) {
	b.details.Invalidate(key)
	if err := b.session.OnKeyCommitted(b.ctx, key); err != nil {
		b.output.Warning("failed to confirm key %s: %v", key, err)
	}
}
