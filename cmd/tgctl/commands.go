package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/kochabonline/tgkit/core/bot"
	"github.com/kochabonline/tgkit/core/bot/telegram"
	"github.com/kochabonline/tgkit/core/http"
	"github.com/kochabonline/tgkit/errors"
	"github.com/kochabonline/tgkit/log"
)

type callFunc func(context.Context, *telegram.Telegram) (*http.Response, error)

// sendFunc is the shape shared by every send method taking a chat and one
// string argument.
type sendFunc func(*telegram.Telegram, context.Context, string, string) (*http.Response, error)

func (a *app) commands() []*cobra.Command {
	cmds := []*cobra.Command{
		a.simple("get-me", "Return basic information about the bot", func(ctx context.Context, tg *telegram.Telegram) (*http.Response, error) {
			return tg.GetMe(ctx)
		}),
		a.simple("get-webhook-info", "Return the current webhook status", func(ctx context.Context, tg *telegram.Telegram) (*http.Response, error) {
			return tg.GetWebhookInfo(ctx)
		}),
		a.simple("delete-webhook", "Remove the webhook integration", func(ctx context.Context, tg *telegram.Telegram) (*http.Response, error) {
			return tg.DeleteWebhook(ctx)
		}),
		{
			Use:   "set-webhook URL",
			Short: "Specify a URL to receive incoming updates",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.call(cmd, func(ctx context.Context, tg *telegram.Telegram) (*http.Response, error) {
					return tg.SetWebhook(ctx, args[0])
				})
			},
		},
		a.sendMessage(),
		a.send("send-photo CHAT PHOTO", "Send a photo by file_id or URL", (*telegram.Telegram).SendPhoto),
		a.send("send-audio CHAT AUDIO", "Send an audio file by file_id or URL", (*telegram.Telegram).SendAudio),
		a.send("send-document CHAT DOCUMENT", "Send a document by file_id or URL", (*telegram.Telegram).SendDocument),
		a.send("send-sticker CHAT STICKER", "Send a sticker by file_id or URL", (*telegram.Telegram).SendSticker),
		a.send("send-video CHAT VIDEO", "Send a video by file_id or URL", (*telegram.Telegram).SendVideo),
		a.send("send-voice CHAT VOICE", "Send a voice note by file_id or URL", (*telegram.Telegram).SendVoice),
		a.send("send-video-note CHAT VIDEO_NOTE", "Send a video note by file_id", (*telegram.Telegram).SendVideoNote),
		a.send("send-chat-action CHAT ACTION", "Tell the user something is happening on the bot's side", (*telegram.Telegram).SendChatAction),
		{
			Use:   "send-location CHAT LATITUDE LONGITUDE",
			Short: "Send a point on the map",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				coords, err := parseFloats(args[1:3], "latitude", "longitude")
				if err != nil {
					return err
				}
				return a.call(cmd, func(ctx context.Context, tg *telegram.Telegram) (*http.Response, error) {
					return tg.SendLocation(ctx, args[0], telegram.Location{Latitude: coords[0], Longitude: coords[1]})
				})
			},
		},
		{
			Use:   "send-venue CHAT LATITUDE LONGITUDE TITLE ADDRESS",
			Short: "Send information about a venue",
			Args:  cobra.ExactArgs(5),
			RunE: func(cmd *cobra.Command, args []string) error {
				coords, err := parseFloats(args[1:3], "latitude", "longitude")
				if err != nil {
					return err
				}
				return a.call(cmd, func(ctx context.Context, tg *telegram.Telegram) (*http.Response, error) {
					return tg.SendVenue(ctx, args[0], telegram.Venue{
						Latitude:  coords[0],
						Longitude: coords[1],
						Title:     args[3],
						Address:   args[4],
					})
				})
			},
		},
		{
			Use:   "send-contact CHAT PHONE_NUMBER FIRST_NAME",
			Short: "Send a phone contact",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.call(cmd, func(ctx context.Context, tg *telegram.Telegram) (*http.Response, error) {
					return tg.SendContact(ctx, args[0], telegram.Contact{PhoneNumber: args[1], FirstName: args[2]})
				})
			},
		},
	}
	return cmds
}

func (a *app) simple(use, short string, fn callFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, fn)
		},
	}
}

func (a *app) send(use, short string, fn sendFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, func(ctx context.Context, tg *telegram.Telegram) (*http.Response, error) {
				return fn(tg, ctx, args[0], args[1])
			})
		},
	}
}

func (a *app) sendMessage() *cobra.Command {
	var concurrency int

	cmd := &cobra.Command{
		Use:   "send-message CHAT[,CHAT...] TEXT",
		Short: "Send a text message to one or more chats",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.flushMetrics()

			chats := splitChats(args[0])
			if len(chats) == 0 {
				return errors.BadRequest("no chat given")
			}

			bodies, err := broadcast(cmd.Context(), a.client, chats, args[1], concurrency)
			for _, body := range bodies {
				if body != "" {
					fmt.Fprintln(cmd.OutOrStdout(), body)
				}
			}
			return err
		},
	}
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "maximum number of messages in flight")
	return cmd
}

// broadcast sends text to every chat and returns the raw answers in chat
// order. Every chat is attempted; the first error is returned.
func broadcast(ctx context.Context, m bot.Messenger, chats []string, text string, concurrency int) ([]string, error) {
	bodies := make([]string, len(chats))

	g := new(errgroup.Group)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i, chat := range chats {
		g.Go(func() error {
			resp, err := m.SendMessage(ctx, chat, text)
			if resp != nil {
				bodies[i] = resp.String()
			}
			if err != nil {
				log.Warn().Err(err).Str("chat_id", chat).Msg("send message")
			}
			return err
		})
	}

	return bodies, g.Wait()
}

func splitChats(s string) []string {
	var chats []string
	for _, chat := range strings.Split(s, ",") {
		if chat = strings.TrimSpace(chat); chat != "" {
			chats = append(chats, chat)
		}
	}
	return chats
}

func parseFloats(args []string, names ...string) ([]float64, error) {
	values := make([]float64, len(args))
	for i, arg := range args {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return nil, errors.Wrap(err, 400, "invalid %s %q", names[i], arg)
		}
		values[i] = v
	}
	return values, nil
}
