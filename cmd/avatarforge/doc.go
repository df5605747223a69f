// Command avatarforge maps extracted layer slices onto canonical avatar
// slots and exports distributable bundle archives.
package main
