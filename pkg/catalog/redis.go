package catalog

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces catalog hashes in Redis.
const DefaultRedisPrefix = "lingua:catalog"

// PublishRedis stores entries as one hash per language under prefix:lang,
// replacing the previous contents of each published language.
func PublishRedis(ctx context.Context, client redis.UniversalClient, prefix string, entries []Entry) error {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}

	byLang := make(map[string]map[string]any)
	for _, e := range entries {
		if e.Language == "" {
			return ErrEmptyLanguage
		}
		if byLang[e.Language] == nil {
			byLang[e.Language] = make(map[string]any)
		}
		byLang[e.Language][e.Msgid] = e.Msgstr
	}

	_, err := client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for lang, messages := range byLang {
			key := prefix + ":" + lang
			pipe.Del(ctx, key)
			pipe.HSet(ctx, key, messages)
		}
		return nil
	})
	if err != nil {
		return errors.Join(ErrSaveFailed, err)
	}
	return nil
}

// LoadRedis reads the hashes of langs published with PublishRedis.
func LoadRedis(ctx context.Context, client redis.UniversalClient, prefix string, langs ...string) ([]Entry, error) {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}

	var entries []Entry
	for _, lang := range langs {
		messages, err := client.HGetAll(ctx, prefix+":"+lang).Result()
		if err != nil {
			return nil, errors.Join(ErrLoadFailed, err)
		}
		for msgid, msgstr := range messages {
			entries = append(entries, Entry{Language: lang, Msgid: msgid, Msgstr: msgstr})
		}
	}
	return entries, nil
}
