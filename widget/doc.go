// Package widget provides the base components built on elem: text, buttons,
// form controls, raw markup and composition helpers.
//
// Widgets that own a single element embed *elem.RootElem, so the root
// mutators (SetClassName, SetAttribute, SetEvent, ...) are available on
// them directly. Event callbacks registered through Options or SetEvent
// receive the widget itself as ctx.
//
// Text and markup values may be any value understood by l10n.Translate.
// Changing them while rendered fades the old content out and the new one in
// through the anim package's default animator.
package widget
