package main

import (
	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/warden/pkg/entities"
	"github.com/Jacobbrewer1/warden/pkg/moderation"
	"github.com/Jacobbrewer1/warden/pkg/tickets"
)

const (
	// ticketingCmdName is the command for all ticketing configuration commands.
	ticketingCmdName = "ticketing"

	categoryCmdName    = "category"
	transcriptsCmdName = "transcripts"
	addRoleSubCmdName  = "add_role"
	removeRoleSubName  = "remove_role"
	panelCmdName       = "panel"
	configCmdName      = "config"

	// TicketCmdName is the command for controlling tickets.
	TicketCmdName = "ticket"

	// CloseCmdName is the sub command for closing the ticket the command was executed in.
	CloseCmdName = "close"

	addRoleCmdName    = "addrole"
	removeRoleCmdName = "removerole"
	kickCmdName       = "kick"
	banCmdName        = "ban"
	unbanCmdName      = "unban"
	timeoutCmdName    = "timeout"
	clearCmdName      = "clear"

	serverInfoCmdName = "serverinfo"
	userInfoCmdName   = "userinfo"
	pingCmdName       = "ping"
	helpCmdName       = "help"
	activityCmdName   = "activity"
	dumpCmdName       = "dump"
)

// Option names.
const (
	channelOption  = "channel"
	roleOption     = "role"
	roleIDOption   = "role_id"
	userOption     = "user"
	userIDOption   = "user_id"
	reasonOption   = "reason"
	modeOption     = "mode"
	durationOption = "duration"
	amountOption   = "amount"
	typeOption     = "type"
	textOption     = "text"
	statusOption   = "status"
)

func permissionPtr(p int64) *int64 {
	return &p
}

func floatPtr(f float64) *float64 {
	return &f
}

func userOpt(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Name:        userOption,
		Type:        discordgo.ApplicationCommandOptionUser,
		Description: description,
		Required:    true,
	}
}

func roleOpt(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Name:        roleOption,
		Type:        discordgo.ApplicationCommandOptionRole,
		Description: description,
		Required:    true,
	}
}

func reasonOpt() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Name:        reasonOption,
		Type:        discordgo.ApplicationCommandOptionString,
		Description: "Reason recorded in the audit log",
	}
}

// commandTable is the slash command dispatch table, in help order.
func commandTable() []*slashCommand {
	return []*slashCommand{
		{
			permission: discordgo.PermissionAdministrator,
			processor:  ticketingCmdController,
			def: &discordgo.ApplicationCommand{
				Name:                     ticketingCmdName,
				Type:                     discordgo.ChatApplicationCommand,
				Description:              "Configure the ticket system.",
				DefaultMemberPermissions: permissionPtr(discordgo.PermissionAdministrator),
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        categoryCmdName,
						Type:        discordgo.ApplicationCommandOptionSubCommand,
						Description: "Set the category new tickets are created in.",
						Options: []*discordgo.ApplicationCommandOption{
							{
								Name:         channelOption,
								Type:         discordgo.ApplicationCommandOptionChannel,
								Description:  "The ticket category",
								ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildCategory},
								Required:     true,
							},
						},
					},
					{
						Name:        transcriptsCmdName,
						Type:        discordgo.ApplicationCommandOptionSubCommand,
						Description: "Set the channel transcripts of closed tickets are sent to.",
						Options: []*discordgo.ApplicationCommandOption{
							{
								Name:         channelOption,
								Type:         discordgo.ApplicationCommandOptionChannel,
								Description:  "The transcript channel",
								ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
								Required:     true,
							},
						},
					},
					{
						Name:        addRoleSubCmdName,
						Type:        discordgo.ApplicationCommandOptionSubCommand,
						Description: "Give a role access to every new ticket.",
						Options:     []*discordgo.ApplicationCommandOption{roleOpt("The support role")},
					},
					{
						Name:        removeRoleSubName,
						Type:        discordgo.ApplicationCommandOptionSubCommand,
						Description: "Stop giving a role access to new tickets.",
						Options: []*discordgo.ApplicationCommandOption{
							{
								Name:        roleOption,
								Type:        discordgo.ApplicationCommandOptionRole,
								Description: "The support role",
							},
							{
								Name:        roleIDOption,
								Type:        discordgo.ApplicationCommandOptionString,
								Description: "The ID of a support role that was deleted",
							},
						},
					},
					{
						Name:        panelCmdName,
						Type:        discordgo.ApplicationCommandOptionSubCommand,
						Description: "Post the ticket panel in this channel.",
						Options: []*discordgo.ApplicationCommandOption{
							{
								Name:        modeOption,
								Type:        discordgo.ApplicationCommandOptionString,
								Description: "A single button or a menu of ticket types",
								Required:    true,
								Choices: []*discordgo.ApplicationCommandOptionChoice{
									{Name: "Button", Value: string(entities.EntryModeButton)},
									{Name: "Dropdown", Value: string(entities.EntryModeDropdown)},
								},
							},
						},
					},
					{
						Name:        configCmdName,
						Type:        discordgo.ApplicationCommandOptionSubCommand,
						Description: "Show the ticket configuration.",
					},
				},
			},
		},
		{
			processor: ticketCmdController,
			def: &discordgo.ApplicationCommand{
				Name:        TicketCmdName,
				Type:        discordgo.ChatApplicationCommand,
				Description: "Control the ticket this command is used in.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        CloseCmdName,
						Type:        discordgo.ApplicationCommandOptionSubCommand,
						Description: "Close this ticket and archive its transcript.",
					},
				},
			},
		},
		{
			permission: discordgo.PermissionManageRoles,
			processor:  addRoleCmd,
			def: &discordgo.ApplicationCommand{
				Name:                     addRoleCmdName,
				Description:              "Give a role to a member.",
				DefaultMemberPermissions: permissionPtr(discordgo.PermissionManageRoles),
				Options: []*discordgo.ApplicationCommandOption{
					userOpt("The member"),
					roleOpt("The role to give"),
				},
			},
		},
		{
			permission: discordgo.PermissionManageRoles,
			processor:  removeRoleCmd,
			def: &discordgo.ApplicationCommand{
				Name:                     removeRoleCmdName,
				Description:              "Take a role from a member.",
				DefaultMemberPermissions: permissionPtr(discordgo.PermissionManageRoles),
				Options: []*discordgo.ApplicationCommandOption{
					userOpt("The member"),
					roleOpt("The role to take"),
				},
			},
		},
		{
			permission: discordgo.PermissionKickMembers,
			processor:  kickCmd,
			def: &discordgo.ApplicationCommand{
				Name:                     kickCmdName,
				Description:              "Kick a member.",
				DefaultMemberPermissions: permissionPtr(discordgo.PermissionKickMembers),
				Options:                  []*discordgo.ApplicationCommandOption{userOpt("The member to kick"), reasonOpt()},
			},
		},
		{
			permission: discordgo.PermissionBanMembers,
			processor:  banCmd,
			def: &discordgo.ApplicationCommand{
				Name:                     banCmdName,
				Description:              "Ban a member.",
				DefaultMemberPermissions: permissionPtr(discordgo.PermissionBanMembers),
				Options:                  []*discordgo.ApplicationCommandOption{userOpt("The member to ban"), reasonOpt()},
			},
		},
		{
			permission: discordgo.PermissionBanMembers,
			processor:  unbanCmd,
			def: &discordgo.ApplicationCommand{
				Name:                     unbanCmdName,
				Description:              "Lift the ban of a user by ID.",
				DefaultMemberPermissions: permissionPtr(discordgo.PermissionBanMembers),
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        userIDOption,
						Type:        discordgo.ApplicationCommandOptionString,
						Description: "The ID of the banned user",
						Required:    true,
					},
				},
			},
		},
		{
			permission: discordgo.PermissionModerateMembers,
			processor:  timeoutCmd,
			def: &discordgo.ApplicationCommand{
				Name:                     timeoutCmdName,
				Description:              "Stop a member from talking for a while.",
				DefaultMemberPermissions: permissionPtr(discordgo.PermissionModerateMembers),
				Options: []*discordgo.ApplicationCommandOption{
					userOpt("The member to time out"),
					{
						Name:        durationOption,
						Type:        discordgo.ApplicationCommandOptionInteger,
						Description: "Minutes",
						Required:    true,
						MinValue:    floatPtr(1),
						MaxValue:    moderation.MaxTimeoutMinutes,
					},
					reasonOpt(),
				},
			},
		},
		{
			permission: discordgo.PermissionManageMessages,
			processor:  clearCmd,
			def: &discordgo.ApplicationCommand{
				Name:                     clearCmdName,
				Description:              "Delete the latest messages of this channel.",
				DefaultMemberPermissions: permissionPtr(discordgo.PermissionManageMessages),
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        amountOption,
						Type:        discordgo.ApplicationCommandOptionInteger,
						Description: "How many messages",
						Required:    true,
						MinValue:    floatPtr(1),
						MaxValue:    moderation.MaxPurge,
					},
				},
			},
		},
		{
			processor: serverInfoCmd,
			def: &discordgo.ApplicationCommand{
				Name:        serverInfoCmdName,
				Description: "Show information about this server.",
			},
		},
		{
			processor: userInfoCmd,
			def: &discordgo.ApplicationCommand{
				Name:        userInfoCmdName,
				Description: "Show information about a member.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        userOption,
						Type:        discordgo.ApplicationCommandOptionUser,
						Description: "The member, yourself by default",
					},
				},
			},
		},
		{
			processor: pingCmd,
			def: &discordgo.ApplicationCommand{
				Name:        pingCmdName,
				Description: "Show the gateway latency.",
			},
		},
		{
			processor: helpCmd,
			def: &discordgo.ApplicationCommand{
				Name:        helpCmdName,
				Description: "List the commands.",
			},
		},
		{
			permission: discordgo.PermissionAdministrator,
			processor:  activityCmd,
			def: &discordgo.ApplicationCommand{
				Name:                     activityCmdName,
				Description:              "Set the bot's status and activity.",
				DefaultMemberPermissions: permissionPtr(discordgo.PermissionAdministrator),
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        typeOption,
						Type:        discordgo.ApplicationCommandOptionString,
						Description: "The activity type",
						Required:    true,
						Choices:     activityTypeChoices(),
					},
					{
						Name:        textOption,
						Type:        discordgo.ApplicationCommandOptionString,
						Description: "The activity text",
						Required:    true,
					},
					{
						Name:        statusOption,
						Type:        discordgo.ApplicationCommandOptionString,
						Description: "The online status",
						Choices:     statusChoices(),
					},
				},
			},
		},
		{
			permission: discordgo.PermissionAdministrator,
			processor:  dumpCmd,
			def: &discordgo.ApplicationCommand{
				Name:                     dumpCmdName,
				Description:              "Register the commands of this server again.",
				DefaultMemberPermissions: permissionPtr(discordgo.PermissionAdministrator),
			},
		},
	}
}

// componentTable is the component dispatch table. The keys are the custom IDs carried by every
// control ever sent and must stay stable.
func componentTable() map[string]*componentHandler {
	return map[string]*componentHandler{
		tickets.CreateTicketButtonID: {processor: createTicketButton},
		tickets.TicketDropdownID:     {processor: createTicketDropdown},
		tickets.CloseTicketButtonID:  {processor: closeTicketButton},
	}
}
